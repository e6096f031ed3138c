package service

import "time"

type Option func(*DeadlineService)

// WithClock подменяет источник текущего времени, в тестах - фиксированный момент
func WithClock(clock func() time.Time) Option {
	return func(s *DeadlineService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLocation задаёт часовой пояс пользователя, по нему считаются календарные дни
func WithLocation(loc *time.Location) Option {
	return func(s *DeadlineService) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithNotificationLimit(limit int) Option {
	return func(s *DeadlineService) {
		if limit > 0 {
			s.notificationLimit = limit
		}
	}
}

// WithViewLimit - сколько дедлайнов дашборд и баннер читают из хранилища за раз
func WithViewLimit(limit int) Option {
	return func(s *DeadlineService) {
		if limit > 0 {
			s.viewLimit = limit
		}
	}
}
