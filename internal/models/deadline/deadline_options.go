package deadline

import (
	"time"
)

// Option изменяет дедлайн при обновлении. nil-опции пропускаются в Apply
type Option func(*Deadline)

func WithTitle(title string) Option {
	if title == "" {
		return nil
	}
	return func(d *Deadline) {
		d.Title = title
	}
}

func WithDescription(description string) Option {
	return func(d *Deadline) {
		d.Description = description
	}
}

func WithCategory(category string) Option {
	return func(d *Deadline) {
		d.Category = category
	}
}

func WithStatus(status Status) Option {
	if status == "" {
		return nil
	}
	return func(d *Deadline) {
		d.Status = status
	}
}

func WithPriority(priority Priority) Option {
	if priority == "" {
		return nil
	}
	return func(d *Deadline) {
		d.Priority = priority
	}
}

func WithDueAt(dueAt time.Time) Option {
	if dueAt.IsZero() {
		return nil
	}
	return func(d *Deadline) {
		d.DueAt = dueAt
	}
}

func Apply(d *Deadline, options ...Option) {
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
}
