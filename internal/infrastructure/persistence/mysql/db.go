package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lubrimax/lubestock/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate，仅开发环境依赖）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 注意：AutoMigrate只会创建表、添加字段；生产环境应使用版本化迁移脚本
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ProductModel{},
		&SaleRecordModel{},
		&StockMovementModel{},
		&AlertStateModel{},
	)
}

// ProductModel GORM商品模型
// 设计说明:
// 1. 这是infrastructure层的数据模型，包含GORM tag；
//    domain/product/entity.go是领域实体，不依赖GORM
// 2. 价格/成本使用int64存储"分"为单位
// 3. current_stock带索引：告警刷新按库存条件扫描
type ProductModel struct {
	ID           uint           `gorm:"primaryKey"`
	Name         string         `gorm:"index:idx_search;size:200;not null;comment:商品名"`
	Category     string         `gorm:"index;size:50;not null;comment:分类"`
	UnitCost     int64          `gorm:"not null;comment:进货成本(分)"`
	UnitPrice    int64          `gorm:"not null;comment:销售单价(分)"`
	CurrentStock int            `gorm:"index:idx_stock;default:0;comment:当前库存"`
	MinStock     int            `gorm:"default:0;comment:最低库存阈值"`
	MaxStock     int            `gorm:"default:0;comment:最高库存阈值"`
	Supplier     string         `gorm:"index;size:100;comment:供应商"`
	CreatedAt    time.Time      `gorm:"comment:创建时间"`
	UpdatedAt    time.Time      `gorm:"comment:更新时间"`
	DeletedAt    gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (ProductModel) TableName() string {
	return "products"
}

// SaleRecordModel GORM销售记录模型
// 设计说明：由POS收银流程写入，本服务只读；
// (product_id, sold_at)复合索引支撑最近售出时间与窗口销量查询
type SaleRecordModel struct {
	ID        uint      `gorm:"primaryKey"`
	ProductID uint      `gorm:"index:idx_product_sold,priority:1;not null;comment:商品ID"`
	Quantity  int       `gorm:"not null;comment:售出数量"`
	UnitPrice int64     `gorm:"not null;comment:成交单价(分)"`
	SoldAt    time.Time `gorm:"index:idx_product_sold,priority:2;not null;comment:成交时间"`
}

// TableName 指定表名
func (SaleRecordModel) TableName() string {
	return "sale_records"
}

// StockMovementModel GORM库存变动流水模型
// 设计原则：只增不改（Append-Only），记录变更后状态与操作员，
// 用于审计与对账
type StockMovementModel struct {
	ID         uint      `gorm:"primaryKey"`
	ProductID  uint      `gorm:"index:idx_product_id;not null;comment:商品ID"`
	Delta      int       `gorm:"not null;comment:变动数量(正入库负出库)"`
	After      int       `gorm:"not null;comment:变动后库存"`
	Reason     string    `gorm:"type:varchar(20);not null;comment:变动原因"`
	OperatorID uint      `gorm:"index;comment:操作员用户ID"`
	CreatedAt  time.Time `gorm:"index;comment:创建时间"`
}

// TableName 指定表名
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// AlertStateModel GORM告警状态镜像模型
// 设计说明：
// 1. 只是本地告警存储的尽力而为镜像，供其他端共享告警状态；
//    本地Store永远是展示权威
// 2. alert_id = 商品ID（每个商品同时最多一条在档告警）
type AlertStateModel struct {
	AlertID    uint      `gorm:"primaryKey;comment:告警ID(=商品ID)"`
	Status     string    `gorm:"type:varchar(10);not null;comment:生命周期状态"`
	ViewedAt   time.Time `gorm:"comment:查看时间"`
	ResolvedAt time.Time `gorm:"comment:处理时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (AlertStateModel) TableName() string {
	return "alert_states"
}
