package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/praxislabs/praxis/internal/types"
)

var (
	initType     string
	initDeadline string
	initRequires []string
	initLevels   []string
)

var initCmd = &cobra.Command{
	Use:   "init <outcome>",
	Short: "Create the goal and seed the capability identity",
	Long: `Create the goal document the engine will run against, along with the
initial capability identity.

Requirements take the form domain/capability:target[:weight] (weight
defaults to 1.0). Identity levels take the form domain/capability:level.

Example:
  praxis init "Ship a production Go service" \
    --type outcome --deadline 2026-06-01 \
    --require engineering/go:8:0.9 \
    --require engineering/sql:6:0.6 \
    --level engineering/go:4 \
    --level engineering/sql:3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		goalType := types.GoalType(initType)
		if !goalType.IsValid() {
			return fmt.Errorf("invalid goal type %q (outcome, process, or learning)", initType)
		}

		var deadline *time.Time
		if initDeadline != "" {
			parsed, err := time.Parse("2006-01-02", initDeadline)
			if err != nil {
				return fmt.Errorf("invalid deadline %q (want YYYY-MM-DD): %w", initDeadline, err)
			}
			deadline = &parsed
		}

		requirements, err := parseRequirements(initRequires)
		if err != nil {
			return err
		}
		identity, err := parseLevels(initLevels)
		if err != nil {
			return err
		}

		goal := &types.Goal{
			ID:           uuid.New().String(),
			Outcome:      args[0],
			Type:         goalType,
			Deadline:     deadline,
			Requirements: requirements,
			CreatedAt:    time.Now().UTC(),
		}
		if err := goal.Validate(); err != nil {
			return fmt.Errorf("invalid goal: %w", err)
		}

		ctx := context.Background()
		if err := store.SaveGoal(ctx, goal); err != nil {
			return fmt.Errorf("failed to save goal: %w", err)
		}
		if len(identity) > 0 {
			if err := store.SaveIdentity(ctx, identity); err != nil {
				return fmt.Errorf("failed to save identity: %w", err)
			}
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s Goal created\n\n", green("✓"))
		fmt.Printf("  Outcome: %s\n", cyan(goal.Outcome))
		fmt.Printf("  ID:      %s\n", cyan(goal.ID))
		fmt.Printf("  Requirements: %d, identity capabilities: %d\n", len(requirements), len(identity))
		fmt.Println()
		fmt.Printf("%s Next steps:\n", gray("→"))
		fmt.Printf("  %s\n", gray("praxis run      # plan the first cycle"))
		fmt.Printf("  %s\n", gray("praxis board    # preview the task board"))
		fmt.Println()
		return nil
	},
}

// parseRequirements parses domain/capability:target[:weight] specs.
func parseRequirements(specs []string) ([]types.CapabilityRequirement, error) {
	var out []types.CapabilityRequirement
	for _, spec := range specs {
		domain, capability, rest, err := splitCapabilitySpec(spec)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(rest, ":")
		if len(parts) < 1 || len(parts) > 2 {
			return nil, fmt.Errorf("invalid requirement %q (want domain/capability:target[:weight])", spec)
		}
		target, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid target level in %q: %w", spec, err)
		}
		weight := 1.0
		if len(parts) == 2 {
			weight, err = strconv.ParseFloat(parts[1], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid weight in %q: %w", spec, err)
			}
		}
		out = append(out, types.CapabilityRequirement{
			Domain:      domain,
			Capability:  capability,
			TargetLevel: target,
			Weight:      weight,
		})
	}
	return out, nil
}

// parseLevels parses domain/capability:level specs.
func parseLevels(specs []string) ([]types.CapabilityLevel, error) {
	var out []types.CapabilityLevel
	for _, spec := range specs {
		domain, capability, rest, err := splitCapabilitySpec(spec)
		if err != nil {
			return nil, err
		}
		level, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid level in %q: %w", spec, err)
		}
		cap := types.CapabilityLevel{Domain: domain, Capability: capability, Level: level}
		if err := cap.Validate(); err != nil {
			return nil, fmt.Errorf("invalid identity entry %q: %w", spec, err)
		}
		out = append(out, cap)
	}
	return out, nil
}

func splitCapabilitySpec(spec string) (domain, capability, rest string, err error) {
	slash := strings.Index(spec, "/")
	colon := strings.Index(spec, ":")
	if slash <= 0 || colon <= slash+1 {
		return "", "", "", fmt.Errorf("invalid spec %q (want domain/capability:...)", spec)
	}
	return spec[:slash], spec[slash+1 : colon], spec[colon+1:], nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initType, "type", "outcome", "Goal type: outcome, process, or learning")
	initCmd.Flags().StringVar(&initDeadline, "deadline", "", "Goal deadline (YYYY-MM-DD)")
	initCmd.Flags().StringArrayVar(&initRequires, "require", nil, "Capability requirement (domain/capability:target[:weight], repeatable)")
	initCmd.Flags().StringArrayVar(&initLevels, "level", nil, "Initial identity level (domain/capability:level, repeatable)")
}
