package server

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// OriginPolicy decides which browser origins an audience accepts. It is
// parsed from a comma-separated list where each entry is "*", an exact
// origin, or a regular expression wrapped in slashes such as
// "/\.example\.com$/".
type OriginPolicy struct {
	any      bool
	exact    map[string]bool
	patterns []*regexp.Regexp
}

func ParseOrigins(list string) (*OriginPolicy, error) {
	p := &OriginPolicy{exact: map[string]bool{}}

	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		switch {
		case entry == "":
		case entry == "*":
			p.any = true
		case len(entry) > 2 && strings.HasPrefix(entry, "/") && strings.HasSuffix(entry, "/"):
			re, err := regexp.Compile(entry[1 : len(entry)-1])
			if err != nil {
				return nil, fmt.Errorf("invalid origin pattern %q: %w", entry, err)
			}
			p.patterns = append(p.patterns, re)
		default:
			p.exact[strings.TrimSuffix(entry, "/")] = true
		}
	}
	return p, nil
}

// Allows reports whether origin may make credentialed requests.
func (p *OriginPolicy) Allows(origin string) bool {
	if p.any {
		return true
	}
	if p.exact[origin] {
		return true
	}
	for _, re := range p.patterns {
		if re.MatchString(origin) {
			return true
		}
	}
	return false
}

// Empty reports whether the policy accepts no origin at all.
func (p *OriginPolicy) Empty() bool {
	return !p.any && len(p.exact) == 0 && len(p.patterns) == 0
}

func corsMiddleware(policy *OriginPolicy) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc:  policy.Allows,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
