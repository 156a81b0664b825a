// Package lead defines the Lead aggregate: an unqualified prospect that is
// worked through NEW → CONTACTED → QUALIFIED → CONVERTED, or dropped into one
// of the absorbing UNQUALIFIED / LOST states.
package lead

import (
	"fmt"
	"strings"
	"time"

	"github.com/jsamuelsen11/salesflow/internal/domain"
)

// Status is the position of a Lead in its pipeline.
type Status string

const (
	StatusNew         Status = "NEW"
	StatusContacted   Status = "CONTACTED"
	StatusQualified   Status = "QUALIFIED"
	StatusConverted   Status = "CONVERTED"
	StatusUnqualified Status = "UNQUALIFIED"
	StatusLost        Status = "LOST"
)

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusUnqualified, StatusLost:
		return true
	default:
		return false
	}
}

// IsAbsorbing reports whether no further transition may leave s.
func (s Status) IsAbsorbing() bool {
	return s == StatusConverted || s == StatusUnqualified || s == StatusLost
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// Rating is the sales temperature assigned during qualification.
type Rating string

const (
	RatingHot  Rating = "HOT"
	RatingWarm Rating = "WARM"
	RatingCold Rating = "COLD"
)

// IsValid returns true if the rating is one of the defined constants.
func (r Rating) IsValid() bool {
	return r == RatingHot || r == RatingWarm || r == RatingCold
}

// Lead is a prospective customer captured by intake. OwnerID is empty while
// the lead sits in the unassigned pool. Leads are never physically deleted;
// Deleted marks a soft delete.
type Lead struct {
	ID                 string
	FirstName          string
	LastName           string
	Company            string
	Email              string
	Phone              string
	Source             string
	Status             Status
	Rating             Rating
	OwnerID            string
	ConvertedAccountID string
	LastContactDate    *time.Time
	Deleted            bool
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// FullName returns the lead's display name.
func (l *Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// Validate checks business rules for the Lead entity.
func (l *Lead) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(l.FirstName) == "" && strings.TrimSpace(l.LastName) == "" {
		fields["name"] = domain.MsgRequired
	}
	if strings.TrimSpace(l.Company) == "" {
		fields["company"] = domain.MsgRequired
	}
	if l.Email != "" && !strings.Contains(l.Email, "@") {
		fields["email"] = "must be a valid email address"
	}
	if !l.Status.IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", l.Status)
	}
	if l.Rating != "" && !l.Rating.IsValid() {
		fields["rating"] = fmt.Sprintf("invalid: %q", l.Rating)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// checkMutable rejects any change to a converted, absorbed or archived lead.
func (l *Lead) checkMutable() error {
	switch {
	case l.Status == StatusConverted:
		return domain.ErrAlreadyConverted
	case l.Deleted:
		return fmt.Errorf("%w: lead %s is archived", domain.ErrInvalidTransition, l.ID)
	case l.Status.IsAbsorbing():
		return fmt.Errorf("%w: lead %s is %s", domain.ErrInvalidTransition, l.ID, l.Status)
	}
	return nil
}

// Qualify moves the lead to QUALIFIED with the given rating and stamps the
// last contact date. Re-qualifying an already qualified lead updates its
// rating.
func (l *Lead) Qualify(rating Rating, now time.Time) error {
	if !rating.IsValid() {
		return domain.NewValidationError("rating", fmt.Sprintf("invalid: %q", rating))
	}
	if err := l.checkMutable(); err != nil {
		return err
	}
	l.Status = StatusQualified
	l.Rating = rating
	l.LastContactDate = &now
	l.UpdatedAt = now
	return nil
}

// Transition applies a manual status change. Only CONTACTED, UNQUALIFIED and
// LOST may be set directly; QUALIFIED and CONVERTED have dedicated
// operations.
func (l *Lead) Transition(to Status, now time.Time) error {
	if err := l.checkMutable(); err != nil {
		return err
	}
	switch to {
	case StatusContacted:
		if l.Status != StatusNew && l.Status != StatusContacted {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, l.Status, to)
		}
		l.LastContactDate = &now
	case StatusUnqualified, StatusLost:
	default:
		return fmt.Errorf("%w: status %q cannot be set directly", domain.ErrInvalidTransition, to)
	}
	l.Status = to
	l.UpdatedAt = now
	return nil
}

// CanConvert reports whether the lead may be converted.
func (l *Lead) CanConvert() error {
	return l.checkMutable()
}

// MarkConverted records a successful conversion into accountID.
func (l *Lead) MarkConverted(accountID string, now time.Time) error {
	if err := l.checkMutable(); err != nil {
		return err
	}
	if accountID == "" {
		return domain.NewValidationError("converted_account_id", domain.MsgRequired)
	}
	l.Status = StatusConverted
	l.ConvertedAccountID = accountID
	l.UpdatedAt = now
	return nil
}

// Archive soft-deletes the lead.
func (l *Lead) Archive(now time.Time) error {
	if l.Deleted {
		return fmt.Errorf("%w: lead %s is already archived", domain.ErrInvalidTransition, l.ID)
	}
	l.Deleted = true
	l.UpdatedAt = now
	return nil
}
