package data

import (
	"context"
	"errors"
	"time"

	"github.com/facundofernandezmiguez/mutants/internal/biz"

	"github.com/go-sql-driver/mysql"
	jsoniter "github.com/json-iterator/go"
	"github.com/yola1107/kratos/v2/log"
)

// recordCacheKey is the redis hash mirroring verified sequences.
const recordCacheKey = "dna:records"

// mysql error 1062, duplicate entry for a unique key.
const dupEntryNumber = 1062

// dnaRecord keys rows by the full sequence so the database enforces
// at most one verdict per matrix.
type dnaRecord struct {
	DnaSequence string    `xorm:"pk varchar(768) 'dna_sequence'"`
	Mutant      bool      `xorm:"'mutant'"`
	CreatedAt   time.Time `xorm:"created 'created_at'"`
}

func (dnaRecord) TableName() string {
	return "dna_record"
}

type dnaRepo struct {
	data *Data
	log  *log.Helper
}

// NewDnaRepo .
func NewDnaRepo(data *Data, logger log.Logger) biz.DnaRepo {
	return &dnaRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *dnaRepo) SaveIfAbsent(ctx context.Context, rec *biz.DnaRecord) error {
	cached, err := r.data.rdb.HExists(ctx, recordCacheKey, rec.Sequence).Result()
	if err != nil {
		// The cache is an optimization, the table stays authoritative.
		r.log.Warnf("redis lookup for %q failed: %v", rec.Sequence, err)
	} else if cached {
		return biz.ErrRecordExists
	}

	row := &dnaRecord{DnaSequence: rec.Sequence, Mutant: rec.Mutant}
	if _, err = r.data.db.Context(ctx).Insert(row); err != nil {
		if isDupEntry(err) {
			r.cacheRecord(ctx, rec)
			return biz.ErrRecordExists
		}
		return err
	}
	r.cacheRecord(ctx, rec)
	return nil
}

func (r *dnaRepo) ListAll(ctx context.Context) ([]*biz.DnaRecord, error) {
	var rows []dnaRecord
	if err := r.data.db.Context(ctx).Find(&rows); err != nil {
		return nil, err
	}
	records := make([]*biz.DnaRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &biz.DnaRecord{
			Sequence: row.DnaSequence,
			Mutant:   row.Mutant,
		})
	}
	return records, nil
}

func (r *dnaRepo) cacheRecord(ctx context.Context, rec *biz.DnaRecord) {
	payload, err := jsoniter.MarshalToString(rec)
	if err != nil {
		r.log.Warnf("marshal record %q: %v", rec.Sequence, err)
		return
	}
	if err = r.data.rdb.HSet(ctx, recordCacheKey, rec.Sequence, payload).Err(); err != nil {
		r.log.Warnf("cache record %q: %v", rec.Sequence, err)
	}
}

func isDupEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == dupEntryNumber
}
