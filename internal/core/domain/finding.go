package domain

import "time"

// Finding is one anomaly detector's verdict plus supporting evidence.
// Exactly one evidence field is populated, matching the detector kind.
type Finding struct {
	Kind      FindingKind `json:"kind"`
	Triggered bool        `json:"triggered"`

	Value    *ValueEvidence    `json:"value,omitempty"`
	Transfer *TransferEvidence `json:"transfer,omitempty"`
	Hiding   *HidingEvidence   `json:"hiding,omitempty"`
}

type FindingKind string

const (
	FindingValue    FindingKind = "value"
	FindingTransfer FindingKind = "transfer"
	FindingHiding   FindingKind = "hiding"
)

// ValueEvidence lists transfers whose amount fell outside the
// configured band.
type ValueEvidence struct {
	TransferIDs []string `json:"transfer_ids"`
	Values      []int64  `json:"values"`
}

// TransferEvidence describes the tightest burst observed.
type TransferEvidence struct {
	MinInterval time.Duration `json:"min_interval"`
	FirstID     string        `json:"first_id"`
	SecondID    string        `json:"second_id"`
}

// HidingEvidence describes a detected pass-through pair.
type HidingEvidence struct {
	InboundID  string        `json:"inbound_id"`
	OutboundID string        `json:"outbound_id"`
	Interval   time.Duration `json:"interval"`

	// RelayDepth is 1 for the observed hop, 2 when the corroboration
	// lookup saw the counterparty forward the funds onward as well.
	RelayDepth int `json:"relay_depth"`
}

// SanctionsVerdict is the compliance upstream's answer for an address.
type SanctionsVerdict struct {
	Sanctioned bool               `json:"sanctioned"`
	Evidence   []SanctionsListing `json:"evidence,omitempty"`

	// Degraded marks a negative verdict produced because the lookup
	// failed rather than because the address is clean.
	Degraded bool `json:"-"`
}

// SanctionsListing is one entry naming the sanctioned identity.
type SanctionsListing struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
}
