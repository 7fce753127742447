package system

import (
	"fmt"
	"time"

	"github.com/jspargo/remind/internal/alarm"
	"github.com/jspargo/remind/internal/cli"
	"github.com/jspargo/remind/internal/keyring"
)

type DoctorCmd struct {
	Fix bool `help:"Repair alarm registrations that disagree with reminder state."`
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: DB reachable
	dbReachable := true
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	// Check 2: Alarm registrations consistent with reminder state
	if dbReachable {
		if err := cmd.checkAlarms(ctx); err != nil {
			fmt.Printf("❌ Alarm registrations: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Alarm registrations: OK\n")
		}
	} else {
		fmt.Printf("⊘ Alarm registrations: SKIPPED (database not reachable)\n")
	}

	// Check 3: Clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock: OK\n")
	}

	// Check 4: OS keyring (warning only, sqlite setups never need it)
	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING\n")
		fmt.Printf("   Keyring unavailable; postgres credentials cannot be stored\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed")
	return nil
}

// checkAlarms verifies every active reminder has exactly one registration at
// its due time and no registration points at a missing or completed reminder.
// With --fix the registration set is rebuilt from the reminder table.
func (cmd *DoctorCmd) checkAlarms(ctx *cli.Context) error {
	active, err := ctx.Store.GetActive()
	if err != nil {
		return fmt.Errorf("failed to load active reminders: %w", err)
	}
	regs, err := ctx.Store.GetAllAlarms()
	if err != nil {
		return fmt.Errorf("failed to load alarm registrations: %w", err)
	}

	byID := make(map[int64]int64, len(regs))
	for _, reg := range regs {
		byID[reg.ReminderID] = reg.DueAt
	}

	var problems []string
	seen := make(map[int64]struct{}, len(active))
	for _, rem := range active {
		seen[rem.ID] = struct{}{}
		dueAt, ok := byID[rem.ID]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("reminder %d has no alarm registration", rem.ID))
		case dueAt != rem.DateTime:
			problems = append(problems, fmt.Sprintf("reminder %d alarm registered at the wrong time", rem.ID))
		}
	}
	for _, reg := range regs {
		if _, ok := seen[reg.ReminderID]; !ok {
			problems = append(problems, fmt.Sprintf("orphaned alarm registration for reminder %d", reg.ReminderID))
		}
	}

	if len(problems) == 0 {
		return nil
	}

	if cmd.Fix {
		d := alarm.NewDispatcher(ctx.Store, ctx.Store, nil, time.Minute)
		if err := d.Reconcile(); err != nil {
			return fmt.Errorf("repair failed: %w", err)
		}
		fmt.Printf("   Repaired %d alarm inconsistencies\n", len(problems))
		return nil
	}

	for _, p := range problems {
		fmt.Printf("   %s\n", p)
	}
	return fmt.Errorf("%d inconsistencies found (run 'remind doctor --fix' to repair)", len(problems))
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock appears wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}
