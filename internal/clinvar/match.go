// Package clinvar provides read-only access to a pre-populated reference
// clinical-variant database keyed by rs identifier.
package clinvar

// Match is one annotated row from the reference database. Rows are
// consumed as-is and never written back.
type Match struct {
	RsID         string `json:"rsid"`
	Chrom        string `json:"chrom"`
	Pos          int64  `json:"pos"`
	Ref          string `json:"ref"`
	Alt          string `json:"alt"`
	Gene         string `json:"gene"`
	ClnSig       string `json:"clnsig"`     // free-text clinical significance
	ClnRevStat   string `json:"clnrevstat"` // review status
	Condition    string `json:"condition"`  // pipe-delimited condition names
	UserGenotype string `json:"user_genotype,omitempty"`
}
