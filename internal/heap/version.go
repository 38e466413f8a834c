package heap

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// LayoutVersion tags the in-band header encoding this build implements.
// Bump the minor version when a backward-compatible field is added to
// header; bump the major version when the allocated-flag encoding or the
// header layout changes in a way that makes an arena written by one build
// unsafe to hand to another (for example, widening size past the in-band
// MSB-flag encoding per the design notes on that tradeoff).
const LayoutVersion = "1.0.0"

func checkABI(constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("heap: invalid ABI constraint %q: %w", constraint, err)
	}

	v, err := semver.NewVersion(LayoutVersion)
	if err != nil {
		return fmt.Errorf("heap: invalid layout version %q: %w", LayoutVersion, err)
	}

	if !c.Check(v) {
		return fmt.Errorf("heap: running layout version %s does not satisfy ABI constraint %q", LayoutVersion, constraint)
	}

	return nil
}
