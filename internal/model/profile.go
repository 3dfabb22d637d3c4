package model

// ClusterProfile is the statistical signature of one cluster:
// mean and spread of each standardized indicator across its members.
// It is derived entirely from an assignment and its source matrix.
type ClusterProfile struct {
	Cluster int                `json:"cluster"`
	Size    int                `json:"size"`
	Mean    map[string]float64 `json:"mean"`
	StdDev  map[string]float64 `json:"std_dev"`
}

// Tier is the discretization of the vulnerability score into priority buckets.
type Tier string

const (
	High   Tier = "HIGH"
	Medium Tier = "MEDIUM"
	Low    Tier = "LOW"
	// Review marks noise-labeled records that need individual attention
	// instead of an automatic tier.
	Review Tier = "REVIEW"
)

// PriorityEntry is one row of the ranked aid-priority list.
type PriorityEntry struct {
	Name    string  `json:"name"`
	Cluster int     `json:"cluster"`
	// Score is the composite vulnerability score of the record itself.
	Score float64 `json:"score"`
	// ClusterScore is the mean composite score of the record's cluster profile.
	ClusterScore float64 `json:"cluster_score"`
	Tier         Tier    `json:"tier"`
}
