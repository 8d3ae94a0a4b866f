package conf

import (
	"errors"
	"fmt"
)

// errorsAs mirrors errors.As without forcing every caller to alias the
// stdlib package alongside the project errors package.
func errorsAs(err error, target any) bool {
	return errors.As(err, target)
}

// ValidateSettings checks settings for values the engine cannot run with.
func ValidateSettings(s *Settings) error {
	if s.Store.Path == "" {
		return errors.New("store.path must not be empty")
	}
	if s.Index.URL == "" {
		return errors.New("index.url must not be empty")
	}
	if s.Install.BatchSize <= 0 {
		return fmt.Errorf("install.batchsize must be positive, got %d", s.Install.BatchSize)
	}
	if len(s.Nearby.RadiiKm) == 0 {
		return errors.New("nearby.radiikm must list at least one radius")
	}
	prev := 0.0
	for _, r := range s.Nearby.RadiiKm {
		if r <= prev {
			return fmt.Errorf("nearby.radiikm must be positive and strictly increasing, got %v", s.Nearby.RadiiKm)
		}
		prev = r
	}
	if s.Nearby.TargetCount <= 0 {
		return fmt.Errorf("nearby.targetcount must be positive, got %d", s.Nearby.TargetCount)
	}
	if s.Nearby.DisplayLimit <= 0 {
		return fmt.Errorf("nearby.displaylimit must be positive, got %d", s.Nearby.DisplayLimit)
	}
	return nil
}
