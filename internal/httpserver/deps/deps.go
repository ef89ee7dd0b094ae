package deps

import (
	"time"

	"github.com/SstealzZ/LinkStart/internal/logger"
	"github.com/SstealzZ/LinkStart/internal/poller"
	"github.com/SstealzZ/LinkStart/internal/services"
	"github.com/SstealzZ/LinkStart/internal/session"
)

type Deps struct {
	Logger     logger.Logger
	StartTime  time.Time
	Version    string
	Commit     string
	BuildDate  string
	GoVersion  string
	TimeNow    func() time.Time // for testing, defaults to time.Now
	Session    *session.Manager // auth session manager (owns the token)
	Collection *services.Manager
	Poller     *poller.Poller
	SeedFile   string        // path to the YAML seed file ("" = import disabled)
	Refresh    chan struct{} // channel to trigger a manual collection refresh

	AllowedHosts []string // Host headers allowed to reach the dashboard
	AllowedCIDRS []string // IPs/CIDRs allowed to reach the dashboard
	TrustProxy   bool     // true when running behind a trusted reverse proxy

	LoginBurst        int // rate limit burst for credential forms
	LoginRefillPerMin int
}
