package services

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
)

// CaptchaService issues the arithmetic challenge shown before a new
// username is registered at login.
type CaptchaService struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCaptchaService() *CaptchaService {
	return &CaptchaService{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GenerateMathProblem returns a display string (e.g. "3 + 5") and the integer answer.
// Usage: Store answer in session, display question to user.
func (s *CaptchaService) GenerateMathProblem() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.rnd.Intn(10)
	b := s.rnd.Intn(10)
	if s.rnd.Intn(2) == 0 {
		return fmt.Sprintf("%d + %d", a, b), a + b
	}
	// 保证减法结果非负
	if a < b {
		a, b = b, a
	}
	return fmt.Sprintf("%d - %d", a, b), a - b
}

// Check compares the user's input to the stored answer.
func (s *CaptchaService) Check(expected int, input string) error {
	got, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || got != expected {
		return ErrInvalidCaptcha
	}
	return nil
}
