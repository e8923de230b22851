package config

import "net/url"

const redactedValue = "[redacted]"

// Redacted returns a copy of the record with secrets and connection
// passwords masked, suitable for logs and dumps.
func (c *Config) Redacted() Config {
	out := *c

	out.Project.DatabaseURL = redactURL(c.Project.DatabaseURL)
	out.Project.RedisURL = redactURL(c.Project.RedisURL)
	out.Project.HTTP.JWTSecret = redact(c.Project.HTTP.JWTSecret)
	out.Project.HTTP.CookieSecret = redact(c.Project.HTTP.CookieSecret)

	out.Modules = make([]Module, len(c.Modules))
	for i, m := range c.Modules {
		m.Options = redactOptions(m.Options)
		out.Modules[i] = m
	}
	return out
}

func redactOptions(opts ModuleOptions) ModuleOptions {
	switch o := opts.(type) {
	case FileModuleOptions:
		providers := make([]FileProvider, len(o.Providers))
		for i, p := range o.Providers {
			switch po := p.Options.(type) {
			case MinioOptions:
				po.SecretKey = redact(po.SecretKey)
				p.Options = po
			case CloudinaryOptions:
				po.APISecret = redact(po.APISecret)
				p.Options = po
			}
			providers[i] = p
		}
		return FileModuleOptions{Providers: providers}
	case CacheOptions:
		o.RedisURL = redactURL(o.RedisURL)
		return o
	case EventBusOptions:
		o.RedisURL = redactURL(o.RedisURL)
		return o
	case WorkflowOptions:
		o.Redis.URL = redactURL(o.Redis.URL)
		return o
	}
	return opts
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return redactedValue
}

// redactURL masks the password of a connection URL. Values that do not parse
// as URLs are masked entirely.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return redactedValue
	}
	if _, ok := u.User.Password(); ok {
		return u.Redacted()
	}
	return raw
}
