package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"
)

// VersionCache memoizes parsed version objects across repeated
// comparisons. Recipe versions are bitbake PV[-rPR] strings, which
// compare under Debian version rules; build-tool requirements are
// specifier strings such as ">=1.40" evaluated against the release's
// bitbake version.
//
// A cache is cheap to build and not safe for concurrent use; create one
// per operation.
type VersionCache struct {
	deb  map[string]debversion.Version
	pep  map[string]pep440.Version
	spec map[string]pep440.Specifiers
}

func NewVersionCache() *VersionCache {
	return &VersionCache{
		deb:  map[string]debversion.Version{},
		pep:  map[string]pep440.Version{},
		spec: map[string]pep440.Specifiers{},
	}
}

func (c *VersionCache) debVersion(value string) (debversion.Version, error) {
	if parsed, ok := c.deb[value]; ok {
		return parsed, nil
	}
	parsed, err := debversion.NewVersion(value)
	if err != nil {
		return debversion.Version{}, err
	}
	c.deb[value] = parsed
	return parsed, nil
}

func (c *VersionCache) pepVersion(value string) (pep440.Version, error) {
	if parsed, ok := c.pep[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.Parse(value)
	if err != nil {
		return pep440.Version{}, err
	}
	c.pep[value] = parsed
	return parsed, nil
}

func (c *VersionCache) pepSpec(value string) (pep440.Specifiers, error) {
	if parsed, ok := c.spec[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.NewSpecifiers(value)
	if err != nil {
		return pep440.Specifiers{}, err
	}
	c.spec[value] = parsed
	return parsed, nil
}

// CompareRecipeVersions returns -1, 0, or 1 comparing two recipe version
// strings. Unparseable versions compare equal so that catalog data with
// odd version strings degrades to insertion order instead of failing a
// listing.
func (c *VersionCache) CompareRecipeVersions(a string, b string) int {
	v1, err := c.debVersion(a)
	if err != nil {
		return 0
	}
	v2, err := c.debVersion(b)
	if err != nil {
		return 0
	}
	return v1.Compare(v2)
}

// SatisfiesBitbake reports whether the given bitbake version satisfies a
// requirement specifier. An empty requirement is always satisfied. A
// malformed specifier or version is an error: silently admitting a layer
// version whose requirement cannot be evaluated would surface wrong
// compatibility results.
func (c *VersionCache) SatisfiesBitbake(requires string, bitbake string) (bool, error) {
	requires = strings.TrimSpace(requires)
	if requires == "" {
		return true, nil
	}
	spec, err := c.pepSpec(requires)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid bitbake requirement: %s", requires)).
			WithCause(err)
	}
	version, err := c.pepVersion(bitbake)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid bitbake version: %s", bitbake)).
			WithCause(err)
	}
	return spec.Check(version), nil
}
