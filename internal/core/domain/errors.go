package domain

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrPollNotFound      = errors.New("poll not found")
	ErrInvalidPollID     = errors.New("invalid poll id")
	ErrInvalidOption     = errors.New("invalid option for this poll")
	ErrInvalidTransition = errors.New("invalid poll status transition")
	ErrPollClosed        = errors.New("poll is not accepting votes")
	ErrAlreadyVoted      = errors.New("voter has already voted on this poll")
	ErrInternal          = errors.New("internal server error")
)
