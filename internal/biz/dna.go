package biz

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yola1107/kratos/v2/errors"
	"github.com/yola1107/kratos/v2/log"
)

// ErrRecordExists signals that a DNA sequence is already stored. Losing a
// store race is benign for callers.
var ErrRecordExists = errors.Conflict("RECORD_EXISTS", "dna sequence already exists")

// DnaRecord is a stored verification result, keyed by the row-concatenated
// sequence.
type DnaRecord struct {
	Sequence string `json:"dna_sequence"`
	Mutant   bool   `json:"mutant"`
}

// Stats is the aggregate snapshot over every stored record.
type Stats struct {
	MutantCount int64
	HumanCount  int64
	Ratio       float64
}

// VerificationEvent is broadcast after each verification request. Created is
// false when the sequence had been stored before or the store failed.
type VerificationEvent struct {
	Sequence string `json:"dna_sequence"`
	Mutant   bool   `json:"mutant"`
	Created  bool   `json:"created"`
}

// DnaRepo is a DnaRecord repo.
type DnaRepo interface {
	// SaveIfAbsent stores the record unless its sequence already exists, in
	// which case it returns ErrRecordExists. Existing records are never
	// overwritten.
	SaveIfAbsent(ctx context.Context, rec *DnaRecord) error
	// ListAll returns every stored record. Statistics only; the dataset is
	// assumed small enough for a full scan.
	ListAll(ctx context.Context) ([]*DnaRecord, error)
}

// EventPublisher broadcasts verification outcomes to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, ev *VerificationEvent) error
}

// DnaUsecase is a DNA verification usecase.
type DnaUsecase struct {
	repo DnaRepo
	pub  EventPublisher
	log  *log.Helper
}

// NewDnaUsecase new a DNA verification usecase.
func NewDnaUsecase(repo DnaRepo, pub EventPublisher, logger log.Logger) *DnaUsecase {
	return &DnaUsecase{repo: repo, pub: pub, log: log.NewHelper(logger)}
}

// Verify classifies the DNA matrix, stores the result keyed by the flattened
// sequence and publishes a verification event. Storage and publish failures
// are logged and never fail the classification.
func (uc *DnaUsecase) Verify(ctx context.Context, dna []string) (bool, error) {
	if err := ValidateMatrix(dna); err != nil {
		return false, err
	}
	mutant := IsMutant(dna)
	rec := &DnaRecord{Sequence: strings.Join(dna, ""), Mutant: mutant}

	created := false
	switch err := uc.repo.SaveIfAbsent(ctx, rec); {
	case err == nil:
		created = true
		uc.log.WithContext(ctx).Infof("dna sequence stored: mutant=%t rows=%d", mutant, len(dna))
	case errors.IsConflict(err):
		uc.log.WithContext(ctx).Info("dna sequence already exists")
	default:
		uc.log.WithContext(ctx).Errorf("store dna sequence: %v", err)
	}

	ev := &VerificationEvent{Sequence: rec.Sequence, Mutant: mutant, Created: created}
	if err := uc.pub.Publish(ctx, ev); err != nil {
		uc.log.WithContext(ctx).Errorf("publish verification event: %v", err)
	}
	return mutant, nil
}

// Stats scans every stored record and derives the aggregate counts. The
// ratio is mutant/human rounded to two decimals, or 1 while no human
// sequence has been stored.
func (uc *DnaUsecase) Stats(ctx context.Context) (*Stats, error) {
	records, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var mutant, human int64
	for _, rec := range records {
		if rec.Mutant {
			mutant++
		} else {
			human++
		}
	}
	ratio := decimal.NewFromInt(1)
	if human > 0 {
		ratio = decimal.NewFromInt(mutant).Div(decimal.NewFromInt(human))
	}
	f, _ := ratio.RoundBank(2).Float64()
	return &Stats{MutantCount: mutant, HumanCount: human, Ratio: f}, nil
}
