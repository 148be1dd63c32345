package saga

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestSaga_Execute_Success 测试所有步骤成功的场景
func TestSaga_Execute_Success(t *testing.T) {
	executed := make([]string, 0)

	sg := NewSaga(5 * time.Second)

	sg.AddStep("本地标记",
		func(ctx context.Context) error {
			executed = append(executed, "本地标记")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "回滚本地标记")
			return nil
		},
	)

	sg.AddStep("远端镜像",
		func(ctx context.Context) error {
			executed = append(executed, "远端镜像")
			return nil
		},
		nil,
	)

	err := sg.Execute(context.Background())
	if err != nil {
		t.Fatalf("Saga执行失败: %v", err)
	}

	if len(executed) != 2 {
		t.Errorf("期望执行2个步骤，实际执行%d个", len(executed))
	}
	if executed[0] != "本地标记" || executed[1] != "远端镜像" {
		t.Errorf("执行顺序错误: %v", executed)
	}
}

// TestSaga_Execute_FailureAndCompensate 测试步骤失败触发逆序补偿
func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	executed := make([]string, 0)

	sg := NewSaga(5 * time.Second)

	sg.AddStep("本地标记",
		func(ctx context.Context) error {
			executed = append(executed, "本地标记")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "回滚本地标记")
			return nil
		},
	)

	sg.AddStep("远端镜像",
		func(ctx context.Context) error {
			executed = append(executed, "远端镜像")
			return errors.New("duplicate entry") // 模拟镜像拒绝
		},
		func(ctx context.Context) error {
			executed = append(executed, "回滚远端镜像")
			return nil
		},
	)

	err := sg.Execute(context.Background())
	if err == nil {
		t.Fatal("期望Saga失败")
	}

	// 失败步骤自身不补偿，只补偿此前已完成的步骤
	want := []string{"本地标记", "远端镜像", "回滚本地标记"}
	if len(executed) != len(want) {
		t.Fatalf("期望执行轨迹%v，实际%v", want, executed)
	}
	for i := range want {
		if executed[i] != want[i] {
			t.Errorf("执行轨迹错误: 位置%d期望%s，实际%s", i, want[i], executed[i])
		}
	}
}

// TestSaga_CompensateFailureContinues 某个补偿失败不阻断后续补偿
func TestSaga_CompensateFailureContinues(t *testing.T) {
	compensated := make([]string, 0)

	sg := NewSaga(5 * time.Second)

	sg.AddStep("步骤A",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error {
			compensated = append(compensated, "A")
			return nil
		},
	)
	sg.AddStep("步骤B",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error {
			compensated = append(compensated, "B")
			return errors.New("补偿B失败")
		},
	)
	sg.AddStep("步骤C",
		func(ctx context.Context) error { return errors.New("C失败") },
		nil,
	)

	_ = sg.Execute(context.Background())

	// 逆序补偿：B先补偿（失败但继续），A再补偿
	if len(compensated) != 2 || compensated[0] != "B" || compensated[1] != "A" {
		t.Errorf("期望补偿顺序[B A]，实际%v", compensated)
	}
}

// TestSaga_Timeout 整体超时触发补偿
func TestSaga_Timeout(t *testing.T) {
	compensated := false

	sg := NewSaga(20 * time.Millisecond)

	sg.AddStep("慢步骤",
		func(ctx context.Context) error {
			time.Sleep(50 * time.Millisecond)
			return nil
		},
		func(ctx context.Context) error {
			compensated = true
			return nil
		},
	)
	sg.AddStep("不会执行",
		func(ctx context.Context) error {
			t.Error("超时后不应执行后续步骤")
			return nil
		},
		nil,
	)

	err := sg.Execute(context.Background())
	if err == nil {
		t.Fatal("期望超时错误")
	}
	if !compensated {
		t.Error("超时后应补偿已完成的步骤")
	}
}
