package common

import (
	"os"
	"path/filepath"
	"strings"

	cenv "github.com/caarlos0/env/v11"
)

const (
	ProfileFile = ".curateprofile"
	EnvFile     = "curateenv"
)

type CommonFlags struct {
	Profile      string `flag:"profile" help:"curate profile name to use"`
	ProfileStore string `flag:"profile-store" help:"path to the profile store file"`
	Env          string `flag:"env" help:"path to curateenv file"`
}

// overrides are environment variables taking place of detected common flags.
type overrides struct {
	Profile      string `env:"CURATE_PROFILE"`
	ProfileStore string `env:"CURATE_PROFILE_STORE"`
	Env          string `env:"CURATE_ENV"`
}

type commonFlagDetection struct {
	home    string
	environ map[string]string
}

type CommonFlagDetectionOption func(*commonFlagDetection) *commonFlagDetection

func WithHome(home string) CommonFlagDetectionOption {
	return func(opt *commonFlagDetection) *commonFlagDetection {
		opt.home = home
		return opt
	}
}

// WithEnviron replaces the process environment read for overrides.
func WithEnviron(environ map[string]string) CommonFlagDetectionOption {
	return func(opt *commonFlagDetection) *commonFlagDetection {
		opt.environ = environ
		return opt
	}
}

// Flags detects default values of common flags.
//
// The profile name is the first line of the nearest ".curateprofile" file
// found walking up from the directory "from" (or "from" itself when none is found).
// The env file is the nearest "curateenv". The profile store is "~/.curate/profile".
//
// CURATE_PROFILE, CURATE_PROFILE_STORE and CURATE_ENV override the detected values.
func Flags(from string, opt ...CommonFlagDetectionOption) (CommonFlags, error) {
	detparam := commonFlagDetection{}
	for _, o := range opt {
		detparam = *o(&detparam)
	}

	home := detparam.home
	if home == "" {
		if _home, err := os.UserHomeDir(); err == nil {
			home = _home
		}
	}

	if _from, err := filepath.Abs(from); err == nil {
		from = _from
	}

	profile := from
	env := filepath.Join(from, EnvFile)

	profileFound := false
	envFound := false
	for searchpath := from; ; {
		if !profileFound {
			candidate := filepath.Join(searchpath, ProfileFile)
			if s, err := os.Stat(candidate); err == nil && s.Mode().IsRegular() {
				content, err := os.ReadFile(candidate)
				if err != nil {
					return CommonFlags{}, err
				}
				profileFound = true
				if p := strings.Split(string(content), "\n"); 0 < len(p) {
					profile = strings.TrimSpace(p[0])
				}
			}
		}
		if !envFound {
			candidate := filepath.Join(searchpath, EnvFile)
			if s, err := os.Stat(candidate); err == nil && s.Mode().IsRegular() {
				envFound = true
				env = candidate
			}
		}

		if profileFound && envFound {
			break
		}

		next := filepath.Dir(searchpath)
		if next == searchpath {
			break
		}
		searchpath = next
	}

	cf := CommonFlags{
		Profile:      profile,
		ProfileStore: filepath.Join(home, ".curate", "profile"),
		Env:          env,
	}

	ov := overrides{}
	var err error
	if detparam.environ != nil {
		err = cenv.ParseWithOptions(&ov, cenv.Options{Environment: detparam.environ})
	} else {
		err = cenv.Parse(&ov)
	}
	if err != nil {
		return CommonFlags{}, err
	}
	if ov.Profile != "" {
		cf.Profile = ov.Profile
	}
	if ov.ProfileStore != "" {
		cf.ProfileStore = ov.ProfileStore
	}
	if ov.Env != "" {
		cf.Env = ov.Env
	}
	return cf, nil
}
