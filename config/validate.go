package config

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSlot       = errors.New("capability slot has no provider")
	ErrDuplicateSlot     = errors.New("capability slot bound more than once")
	ErrSlotMismatch      = errors.New("module options do not match slot")
	ErrNoFileProvider    = errors.New("file module must declare exactly one provider")
	ErrInvalidWorkerMode = errors.New("invalid worker mode")
)

// Module returns the declaration bound to slot.
func (c *Config) Module(slot Slot) (Module, bool) {
	for _, m := range c.Modules {
		if m.Key == slot {
			return m, true
		}
	}
	return Module{}, false
}

// FileProvider returns the single file storage provider of the record.
func (c *Config) FileProvider() (FileProvider, bool) {
	m, ok := c.Module(SlotFile)
	if !ok {
		return FileProvider{}, false
	}
	opts, ok := m.Options.(FileModuleOptions)
	if !ok || len(opts.Providers) != 1 {
		return FileProvider{}, false
	}
	return opts.Providers[0], true
}

// Validate checks that every capability slot resolves to exactly one
// implementation and that the worker mode is recognised.
func (c *Config) Validate() error {
	var errs []error

	counts := make(map[Slot]int, len(Slots))
	for i, m := range c.Modules {
		counts[m.Key]++
		if m.Options == nil || m.Options.slot() != m.Key {
			errs = append(errs, fmt.Errorf("modules[%d] %s: %w", i, m.Key, ErrSlotMismatch))
		}
	}

	for _, slot := range Slots {
		switch n := counts[slot]; {
		case n == 0:
			errs = append(errs, fmt.Errorf("%s: %w", slot, ErrMissingSlot))
		case n > 1:
			errs = append(errs, fmt.Errorf("%s (%d declarations): %w", slot, n, ErrDuplicateSlot))
		}
	}

	if m, ok := c.Module(SlotFile); ok {
		if opts, ok := m.Options.(FileModuleOptions); ok {
			if len(opts.Providers) != 1 {
				errs = append(errs, fmt.Errorf("%d providers: %w", len(opts.Providers), ErrNoFileProvider))
			} else if opts.Providers[0].Options == nil {
				errs = append(errs, fmt.Errorf("provider %q has no options: %w", opts.Providers[0].ID, ErrNoFileProvider))
			}
		}
	}

	if !c.Project.WorkerMode.Valid() {
		errs = append(errs, fmt.Errorf("%q: %w", c.Project.WorkerMode, ErrInvalidWorkerMode))
	}

	return errors.Join(errs...)
}

// Warnings lists required values that were left empty and placeholder
// secrets in production. The host decides how to surface them.
func (c *Config) Warnings() []string {
	var warnings []string

	type requiredValue struct {
		key   string
		value string
	}
	required := []requiredValue{
		{"STORE_CORS", c.Project.HTTP.StoreCORS},
		{"ADMIN_CORS", c.Project.HTTP.AdminCORS},
		{"AUTH_CORS", c.Project.HTTP.AuthCORS},
	}
	if !c.Admin.Disable {
		required = append(required, requiredValue{"MEDUSA_BACKEND_URL", c.Admin.BackendURL})
	}
	for _, r := range required {
		if r.value == "" {
			warnings = append(warnings, r.key+" is not set")
		}
	}

	if c.Mode == "production" {
		if c.Project.HTTP.JWTSecret == PlaceholderSecret {
			warnings = append(warnings, "JWT_SECRET uses the placeholder value in production")
		}
		if c.Project.HTTP.CookieSecret == PlaceholderSecret {
			warnings = append(warnings, "COOKIE_SECRET uses the placeholder value in production")
		}
	}

	if fp, ok := c.FileProvider(); ok {
		if cdn, ok := fp.Options.(CloudinaryOptions); ok {
			if cdn.CloudName == "" || cdn.APIKey == "" || cdn.APISecret == "" {
				warnings = append(warnings, "cloudinary credentials are incomplete")
			}
		}
	}

	return warnings
}
