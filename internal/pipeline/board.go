package pipeline

import (
	"github.com/praxislabs/praxis/internal/compression"
	"github.com/praxislabs/praxis/internal/portfolio"
	"github.com/praxislabs/praxis/internal/schedule"
	"github.com/praxislabs/praxis/internal/types"
)

// buildBoard joins each candidate's compression decision with its
// scheduling fate and portfolio context. Entries follow compression
// order: kept by score, then deferred, then dropped. Governance
// eligibility marks the first allowedTasks kept entries, so throttling
// is visible per task rather than as a bare number.
func buildBoard(candidates []types.Task, compressed compression.Result, sched schedule.Result, balance portfolio.Analysis, allowedTasks int) TaskBoard {
	byID := make(map[string]types.Task, len(candidates))
	for _, task := range candidates {
		byID[task.ID] = task
	}

	placed := make(map[string]bool)
	for _, day := range sched.Days {
		for _, slot := range day.Slots {
			for _, id := range slot.TaskIDs {
				placed[id] = true
			}
		}
	}
	overflowed := make(map[string]bool, len(sched.OverflowTasks))
	for _, id := range sched.OverflowTasks {
		overflowed[id] = true
	}

	var board TaskBoard
	appendEntry := func(decision compression.Decision, action compression.Action, eligible bool) {
		task := byID[decision.TaskID]
		status := DomainBalanced
		if balance.Imbalanced && task.Domain == balance.DominantDomain {
			status = DomainDominant
		}
		board.Entries = append(board.Entries, BoardEntry{
			Task:               task,
			Decision:           action,
			Score:              decision.Score,
			GovernanceEligible: eligible,
			Scheduled:          placed[decision.TaskID],
			Overflow:           overflowed[decision.TaskID],
			DomainStatus:       status,
			Reasons:            decision.ReasonCodes,
		})
	}

	for i, decision := range compressed.Kept {
		appendEntry(decision, compression.ActionKeep, i < allowedTasks)
	}
	for _, decision := range compressed.Deferred {
		appendEntry(decision, compression.ActionDefer, false)
	}
	for _, decision := range compressed.Dropped {
		appendEntry(decision, compression.ActionDrop, false)
	}

	for _, entry := range board.Entries {
		switch entry.Decision {
		case compression.ActionKeep:
			board.Summary.Kept++
		case compression.ActionDefer:
			board.Summary.Deferred++
		case compression.ActionDrop:
			board.Summary.Dropped++
		}
		if entry.Scheduled {
			board.Summary.Scheduled++
		}
		if entry.Overflow {
			board.Summary.Overflow++
		}
		if entry.GovernanceEligible {
			board.Summary.GovernanceEligible++
		}
	}
	return board
}
