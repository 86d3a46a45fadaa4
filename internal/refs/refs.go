package refs

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// MaxAttempts bounds the retry loop around reference allocation. Exhaustion
// means something deeper is wrong (clock skew, sequence exhaustion) and is
// surfaced as a server-side failure.
const MaxAttempts = 5

const requestMarker = "VRQ"

var ErrRetriesExhausted = errors.New("failed to generate a unique reference after multiple attempts")

// Allocator hands out monotonically increasing sequences per scope. The
// postgres implementation backs it with an atomically incremented counter
// row, so two concurrent creators cannot compute the same next sequence.
type Allocator interface {
	ScopeExists(scope string) (bool, error)
	SeedScope(scope string, lastSeq int64) error
	NextSequence(scope string) (int64, error)
}

// CodeScanner reads existing reference codes so a fresh counter scope can be
// seeded from legacy rows instead of restarting at 1.
type CodeScanner interface {
	RequestRefsForYear(yearStart time.Time) ([]string, error)
	VoucherRefsWithPrefix(base string) ([]string, error)
}

type Generator struct {
	alloc   Allocator
	scanner CodeScanner
	logger  *slog.Logger

	// Now is the clock used for year suffixes; overridable in tests.
	Now func() time.Time
}

func NewGenerator(alloc Allocator, scanner CodeScanner, logger *slog.Logger) *Generator {
	return &Generator{
		alloc:   alloc,
		scanner: scanner,
		logger:  logger,
		Now:     time.Now,
	}
}

// NextRequestRef allocates the next request reference. The sequence is scoped
// per year across all companies; the company prefix only affects the display
// form of the code.
func (g *Generator) NextRequestRef(companyPrefix string) (string, error) {
	now := g.Now()
	yy := YearSuffix(now)
	scope := requestMarker + "-" + yy

	seq, err := g.nextSeq(scope, func() (int64, error) {
		yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		existing, err := g.scanner.RequestRefsForYear(yearStart)
		if err != nil {
			return 0, err
		}
		return MaxRequestSeq(existing, yy), nil
	})
	if err != nil {
		return "", err
	}

	return FormatRequestRef(companyPrefix, yy, seq), nil
}

// NextVoucherRef allocates the next voucher reference, scoped per
// company-prefix + year.
func (g *Generator) NextVoucherRef(companyPrefix string) (string, error) {
	yy := YearSuffix(g.Now())
	prefix := strings.ToUpper(companyPrefix)
	scope := prefix + "-" + yy

	seq, err := g.nextSeq(scope, func() (int64, error) {
		existing, err := g.scanner.VoucherRefsWithPrefix(scope)
		if err != nil {
			return 0, err
		}
		return MaxVoucherSeq(existing, prefix, yy), nil
	})
	if err != nil {
		return "", err
	}

	return FormatVoucherRef(companyPrefix, yy, seq), nil
}

// nextSeq seeds the counter scope from legacy codes on first use, then
// increments atomically. The scan only runs when the scope is new, so steady
// state allocation is a single upsert.
func (g *Generator) nextSeq(scope string, seed func() (int64, error)) (int64, error) {
	exists, err := g.alloc.ScopeExists(scope)
	if err != nil {
		return 0, err
	}

	if !exists {
		last, err := seed()
		if err != nil {
			return 0, err
		}
		if err := g.alloc.SeedScope(scope, last); err != nil {
			// a concurrent creator may have seeded the scope first
			if !IsUniqueViolation(err) {
				return 0, err
			}
		}
		g.logger.Info("seeded reference counter scope", "scope", scope, "last_seq", last)
	}

	return g.alloc.NextSequence(scope)
}

func YearSuffix(t time.Time) string {
	return t.Format("06")
}

func FormatRequestRef(companyPrefix, yy string, seq int64) string {
	return fmt.Sprintf("%s-%s-%s-#%d", requestMarker, strings.ToUpper(companyPrefix), yy, seq)
}

func FormatVoucherRef(companyPrefix, yy string, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", strings.ToUpper(companyPrefix), yy, seq)
}

// ParseRequestSeq extracts the numeric suffix of a request reference whose
// year segment matches yy. Malformed codes are skipped, not errors.
func ParseRequestSeq(ref, yy string) (int64, bool) {
	parts := strings.Split(ref, "-")
	if len(parts) != 4 || parts[0] != requestMarker || parts[2] != yy {
		return 0, false
	}
	seq, err := strconv.ParseInt(strings.TrimPrefix(parts[3], "#"), 10, 64)
	if err != nil || seq < 1 {
		return 0, false
	}
	return seq, true
}

// ParseVoucherSeq extracts the trailing sequence of a voucher reference
// matching the given prefix and year.
func ParseVoucherSeq(ref, companyPrefix, yy string) (int64, bool) {
	parts := strings.Split(ref, "-")
	if len(parts) != 3 || parts[0] != strings.ToUpper(companyPrefix) || parts[1] != yy {
		return 0, false
	}
	seq, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || seq < 1 {
		return 0, false
	}
	return seq, true
}

func MaxRequestSeq(existing []string, yy string) int64 {
	var max int64
	for _, ref := range existing {
		if seq, ok := ParseRequestSeq(ref, yy); ok && seq > max {
			max = seq
		}
	}
	return max
}

func MaxVoucherSeq(existing []string, companyPrefix, yy string) int64 {
	var max int64
	for _, ref := range existing {
		if seq, ok := ParseVoucherSeq(ref, companyPrefix, yy); ok && seq > max {
			max = seq
		}
	}
	return max
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// any of the supported drivers. The unique index on reference columns is the
// correctness backstop for concurrent creation.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
