package submit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Overland-East-Bay/family-planner-api/internal/adapters/profiledoc"
	"github.com/Overland-East-Bay/family-planner-api/internal/app/wizard"
	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
)

var _ wizard.Submitter = FileSubmitter{}

// FileSubmitter writes the finished profile to a YAML file.
type FileSubmitter struct {
	Path string
}

func (f FileSubmitter) Submit(ctx context.Context, profile domain.FamilyProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := profiledoc.MarshalYAML(profile)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	// Write then rename so a crash never leaves a half-written profile.
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// LoadProfileFile reads a profile written by FileSubmitter.
func LoadProfileFile(path string) (domain.FamilyProfile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.FamilyProfile{}, fmt.Errorf("read profile: %w", err)
	}
	return profiledoc.UnmarshalYAML(b)
}
