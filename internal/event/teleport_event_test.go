package event

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// TestSourceTypeString 测试 SourceType 的字符串表示
func TestSourceTypeString(t *testing.T) {
	tests := []struct {
		name     string
		source   SourceType
		expected string
	}{
		{"System", SourceSystem, "System"},
		{"Travel", SourceTravel, "Travel"},
		{"Console", SourceConsole, "Console"},
		{"Unknown", SourceType(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.source.String()
			if got != tt.expected {
				t.Errorf("SourceType(%d).String() = %q, 期望 %q", tt.source, got, tt.expected)
			}
		})
	}
}

// TestNewTeleportEvent 测试创建传送事件
func TestNewTeleportEvent(t *testing.T) {
	evt := NewTeleportEvent(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{4, 5, 6}, SourceTravel)

	if evt == nil {
		t.Fatal("NewTeleportEvent() 返回 nil")
	}
	if evt.From.X() != 1 || evt.Target.Z() != 6 {
		t.Errorf("From = %v, Target = %v", evt.From, evt.Target)
	}
	if evt.Source != SourceTravel {
		t.Errorf("Source = %v, 期望 %v", evt.Source, SourceTravel)
	}
	if evt.OK {
		t.Error("新建事件 OK 应为 false")
	}
}

// TestTeleportEventHandlerInvalidType 测试无效事件类型不会 panic
func TestTeleportEventHandlerInvalidType(t *testing.T) {
	TeleportEventHandler("not an event")
	TeleportEventHandler(nil)
	TeleportEventHandler(&TeleportEvent{OK: true})
	TeleportEventHandler(&TeleportEvent{Reason: "nil target"})
}
