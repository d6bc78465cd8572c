package prooflist

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instrumentation for one or more
// ProofListIndex instances, attached via ProofListIndex.WithMetrics. All
// vectors are labeled by index name so that differently named lists sharing
// a process report separately. Members of one family share their name, so
// they report under the same label.
type Metrics struct {
	Pushes          *prometheus.CounterVec
	Sets            *prometheus.CounterVec
	Clears          *prometheus.CounterVec
	ProofsGenerated *prometheus.CounterVec
	ProofsVerified  *prometheus.CounterVec
	Length          *prometheus.GaugeVec
	Height          *prometheus.GaugeVec
}

// NewMetrics creates and registers the proof list metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	return &Metrics{
		Pushes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prooflist_pushes_total",
				Help: "Total number of values appended to a proof list.",
			},
			[]string{"list"},
		),
		Sets: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prooflist_sets_total",
				Help: "Total number of in-place overwrites on a proof list.",
			},
			[]string{"list"},
		),
		Clears: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prooflist_clears_total",
				Help: "Total number of Clear calls on a proof list.",
			},
			[]string{"list"},
		),
		ProofsGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prooflist_proofs_generated_total",
				Help: "Total number of leaf proofs constructed (one per leaf touched by a GetProof/GetRangeProof call).",
			},
			[]string{"list"},
		),
		ProofsVerified: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prooflist_proofs_verified_total",
				Help: "Total number of proof verifications, by outcome.",
			},
			[]string{"list", "result"}, // result: ok, structural, hash_mismatch, length_mismatch, error
		),
		Length: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "prooflist_length",
				Help: "Current number of elements in a proof list.",
			},
			[]string{"list"},
		),
		Height: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "prooflist_height",
				Help: "Current Merkle tree height of a proof list.",
			},
			[]string{"list"},
		),
	}
}

// VerifyAndRecord calls Verify and records the outcome under listName in m.
func VerifyAndRecord[V any](m *Metrics, listName string, proof ListProof[V], length uint64, listHash Hash, marshal func(V) ([]byte, error)) ([]LeafEntry[V], error) {
	entries, err := Verify(proof, length, listHash, marshal)
	result := "ok"
	if err != nil {
		var verr *VerifyError
		if asVerifyError(err, &verr) {
			result = verr.Kind.String()
		} else {
			result = "error"
		}
	}
	if m != nil {
		m.ProofsVerified.WithLabelValues(listName, result).Inc()
	}
	return entries, err
}

func asVerifyError(err error, target **VerifyError) bool {
	ve, ok := err.(*VerifyError)
	if !ok {
		return false
	}
	*target = ve
	return true
}
