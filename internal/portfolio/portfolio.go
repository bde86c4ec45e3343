// Package portfolio measures how cycle work spreads across identity
// domains. A portfolio dominated by one domain triggers a governance
// advisory so the imbalance is visible before it compounds.
package portfolio

import (
	"sort"

	"github.com/praxislabs/praxis/internal/config"
	"github.com/praxislabs/praxis/internal/types"
)

// DomainShare is one domain's slice of the candidate task set.
type DomainShare struct {
	Domain string  `json:"domain"`
	Tasks  int     `json:"tasks"`
	Share  float64 `json:"share"`
}

// Analysis is the domain balance report for one cycle.
type Analysis struct {
	TotalTasks     int           `json:"total_tasks"`
	Shares         []DomainShare `json:"shares,omitempty"`
	DominantDomain string        `json:"dominant_domain,omitempty"`
	Imbalanced     bool          `json:"imbalanced"`
}

// Analyze computes per-domain shares over the candidate tasks. The
// portfolio is imbalanced when one domain exceeds the dominance share
// while at least two domains are in play; a single-domain goal is not
// an imbalance, it is the whole portfolio.
func Analyze(tasks []types.Task, cfg config.PortfolioConfig) Analysis {
	counts := make(map[string]int)
	for _, task := range tasks {
		counts[task.Domain]++
	}

	analysis := Analysis{TotalTasks: len(tasks)}
	if len(tasks) == 0 {
		return analysis
	}

	domains := make([]string, 0, len(counts))
	for domain := range counts {
		domains = append(domains, domain)
	}
	sort.Strings(domains)

	var top DomainShare
	for _, domain := range domains {
		share := DomainShare{
			Domain: domain,
			Tasks:  counts[domain],
			Share:  float64(counts[domain]) / float64(len(tasks)),
		}
		analysis.Shares = append(analysis.Shares, share)
		if share.Tasks > top.Tasks {
			top = share
		}
	}

	analysis.DominantDomain = top.Domain
	analysis.Imbalanced = len(domains) >= 2 && top.Share > cfg.DominanceShare
	return analysis
}
