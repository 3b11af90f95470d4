//go:build !integration

package usecase_test

import (
	"context"
	"strings"
	"testing"

	"telegram-community-bot/internal/usecase"
)

func newEchoUC(bot *MockBot, runner *fakeRunner) usecase.EchoUseCase {
	return usecase.NewEchoUseCase(bot, runner, usecase.NewPrivilegeCheck(bot), newTestLogger())
}

func TestEchoUseCase_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("non-privileged caller is refused", func(t *testing.T) {
		bot := newMockBot()
		runner := newFakeRunner()
		uc := newEchoUC(bot, runner)

		reply, err := uc.Start(ctx, groupEvent(-100, 42, "eco"), "5", "Hola")
		if err != nil {
			t.Fatalf("Start returned error: %v", err)
		}
		if !strings.Contains(reply, "administradores") {
			t.Errorf("expected admins-only reply, got %q", reply)
		}
		if len(runner.every) != 0 {
			t.Error("no timer must be scheduled for a refused caller")
		}
	})

	t.Run("missing arguments reply usage", func(t *testing.T) {
		bot := newMockBot()
		bot.Roles[42] = "administrator"
		uc := newEchoUC(bot, newFakeRunner())

		for _, tc := range []struct{ minutes, message string }{
			{"", ""},
			{"5", ""},
			{"", "Hola"},
		} {
			reply, err := uc.Start(ctx, groupEvent(-100, 42, "eco"), tc.minutes, tc.message)
			if err != nil {
				t.Fatalf("Start(%q, %q) returned error: %v", tc.minutes, tc.message, err)
			}
			if reply != "Uso: /eco <minutos> <mensaje>" {
				t.Errorf("Start(%q, %q): unexpected reply %q", tc.minutes, tc.message, reply)
			}
		}
	})

	t.Run("non-numeric or sub-minute interval is rejected", func(t *testing.T) {
		bot := newMockBot()
		bot.Roles[42] = "administrator"
		uc := newEchoUC(bot, newFakeRunner())

		for _, raw := range []string{"cinco", "0", "-3"} {
			reply, err := uc.Start(ctx, groupEvent(-100, 42, "eco"), raw, "Hola")
			if err != nil {
				t.Fatalf("Start(%q) returned error: %v", raw, err)
			}
			if reply != "El intervalo debe ser un número de minutos mayor o igual a 1." {
				t.Errorf("Start(%q): unexpected reply %q", raw, reply)
			}
		}
		if uc.Active(-100) {
			t.Error("no job must be installed after a rejected interval")
		}
	})

	t.Run("ticks repeat the message with the Eco prefix", func(t *testing.T) {
		bot := newMockBot()
		bot.Roles[42] = "administrator"
		runner := newFakeRunner()
		uc := newEchoUC(bot, runner)

		reply, err := uc.Start(ctx, groupEvent(-100, 42, "eco"), "5", "Hola a todos")
		if err != nil {
			t.Fatalf("Start returned error: %v", err)
		}
		if reply != "Eco activado cada 5 minutos: Hola a todos" {
			t.Errorf("unexpected reply %q", reply)
		}

		runner.fire(ctx)
		runner.fire(ctx)

		sent := bot.sentTo(-100)
		if len(sent) != 2 {
			t.Fatalf("expected 2 ticks, got %d", len(sent))
		}
		for _, s := range sent {
			if s.Text != "Eco: Hola a todos" {
				t.Errorf("unexpected tick text %q", s.Text)
			}
		}
	})

	t.Run("restart replaces the previous timer atomically", func(t *testing.T) {
		bot := newMockBot()
		bot.Roles[42] = "administrator"
		runner := newFakeRunner()
		uc := newEchoUC(bot, runner)

		if _, err := uc.Start(ctx, groupEvent(-100, 42, "eco"), "5", "primero"); err != nil {
			t.Fatalf("first Start failed: %v", err)
		}
		if _, err := uc.Start(ctx, groupEvent(-100, 42, "eco"), "1", "segundo"); err != nil {
			t.Fatalf("second Start failed: %v", err)
		}

		if len(runner.every) != 2 {
			t.Fatalf("expected 2 scheduled tasks, got %d", len(runner.every))
		}
		if !runner.every[0].handle.isStopped() {
			t.Error("first timer must be cancelled before the replacement goes live")
		}
		if runner.every[1].handle.isStopped() {
			t.Error("replacement timer must be live")
		}

		runner.fire(ctx)
		sent := bot.sentTo(-100)
		if len(sent) != 1 || sent[0].Text != "Eco: segundo" {
			t.Fatalf("only the replacement must fire, got %+v", sent)
		}
	})

	t.Run("groups are independent", func(t *testing.T) {
		bot := newMockBot()
		bot.Roles[42] = "administrator"
		runner := newFakeRunner()
		uc := newEchoUC(bot, runner)

		if _, err := uc.Start(ctx, groupEvent(-100, 42, "eco"), "5", "uno"); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		if _, err := uc.Start(ctx, groupEvent(-200, 42, "eco"), "5", "dos"); err != nil {
			t.Fatalf("Start failed: %v", err)
		}

		runner.fire(ctx)
		if got := bot.sentTo(-100); len(got) != 1 || got[0].Text != "Eco: uno" {
			t.Errorf("group -100: got %+v", got)
		}
		if got := bot.sentTo(-200); len(got) != 1 || got[0].Text != "Eco: dos" {
			t.Errorf("group -200: got %+v", got)
		}
	})
}

func TestEchoUseCase_Stop(t *testing.T) {
	ctx := context.Background()

	t.Run("stop cancels the timer and clears the slot", func(t *testing.T) {
		bot := newMockBot()
		bot.Roles[42] = "administrator"
		runner := newFakeRunner()
		uc := newEchoUC(bot, runner)

		if _, err := uc.Start(ctx, groupEvent(-100, 42, "eco"), "5", "Hola"); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		reply, err := uc.Stop(ctx, groupEvent(-100, 42, "eco_stop"))
		if err != nil {
			t.Fatalf("Stop returned error: %v", err)
		}
		if reply != "Eco detenido." {
			t.Errorf("unexpected reply %q", reply)
		}
		if uc.Active(-100) {
			t.Error("job must be cleared after Stop")
		}

		runner.fire(ctx)
		if got := bot.sentTo(-100); len(got) != 0 {
			t.Errorf("no ticks after Stop, got %+v", got)
		}
	})

	t.Run("stop without a live echo says so", func(t *testing.T) {
		bot := newMockBot()
		bot.Roles[42] = "administrator"
		uc := newEchoUC(bot, newFakeRunner())

		reply, err := uc.Stop(ctx, groupEvent(-100, 42, "eco_stop"))
		if err != nil {
			t.Fatalf("Stop returned error: %v", err)
		}
		if reply != "No hay eco activo en este grupo." {
			t.Errorf("unexpected reply %q", reply)
		}
	})

	t.Run("non-privileged caller cannot stop the echo", func(t *testing.T) {
		bot := newMockBot()
		bot.Roles[42] = "administrator"
		runner := newFakeRunner()
		uc := newEchoUC(bot, runner)

		if _, err := uc.Start(ctx, groupEvent(-100, 42, "eco"), "5", "Hola"); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		reply, err := uc.Stop(ctx, groupEvent(-100, 99, "eco_stop"))
		if err != nil {
			t.Fatalf("Stop returned error: %v", err)
		}
		if !strings.Contains(reply, "administradores") {
			t.Errorf("expected admins-only reply, got %q", reply)
		}
		if !uc.Active(-100) {
			t.Error("job must survive a refused Stop")
		}
	})
}
