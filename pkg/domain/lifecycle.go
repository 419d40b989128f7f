package domain

import "time"

// Lifecycle holds the timestamps shared by every soft-deletable entity.
// A nil DeletedAt means the record is live.
type Lifecycle struct {
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}

// IsDeleted returns true if the record has been soft-deleted.
func (l *Lifecycle) IsDeleted() bool {
	return l.DeletedAt != nil
}

// Touch refreshes UpdatedAt.
func (l *Lifecycle) Touch(now time.Time) {
	t := now
	l.UpdatedAt = &t
}

// MarkDeleted moves a live record to the deleted state.
func (l *Lifecycle) MarkDeleted(entity string, now time.Time) error {
	if l.IsDeleted() {
		return AlreadyDeleted(entity)
	}
	t := now
	l.DeletedAt = &t
	return nil
}

// MarkRestored moves a deleted record back to live and refreshes UpdatedAt.
func (l *Lifecycle) MarkRestored(entity string, now time.Time) error {
	if !l.IsDeleted() {
		return NotDeleted(entity)
	}
	l.DeletedAt = nil
	l.Touch(now)
	return nil
}
