/*
Copyright 2026 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package flags

import (
	goflag "flag"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	flag "github.com/spf13/pflag"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"

	"github.com/opendaylight/vtn-sub002/pkg/ratelimit"
)

const (
	DefaultPollInterval      = 30 * time.Second
	DefaultSouthboundTimeout = 30 * time.Second
	DefaultMaxRetries        = 15
	DefaultMinRetryDelay     = 5 * time.Second
	DefaultMaxRetryDelay     = 5 * time.Minute
	DefaultNumWorkers        = 4
	DefaultHealthzPort       = 8086
)

// Flags holds the configuration of the driver.
type Flags struct {
	Controllers         ControllerSpecs
	PollInterval        time.Duration
	SouthboundTimeout   time.Duration
	SouthboundRateLimit RateLimitSpecs
	MaxRetries          int
	MinRetryDelay       time.Duration
	MaxRetryDelay       time.Duration
	NumWorkers          int
	HealthzPort         int
	Version             bool
}

// F are global flags for the driver.
var F = NewDefaults()

// NewDefaults returns flags set to their default values.
func NewDefaults() *Flags {
	return &Flags{
		PollInterval:      DefaultPollInterval,
		SouthboundTimeout: DefaultSouthboundTimeout,
		SouthboundRateLimit: RateLimitSpecs{
			specs: []string{"switch.List,qps,5,5", "port.Get,qps,20,20"},
		},
		MaxRetries:    DefaultMaxRetries,
		MinRetryDelay: DefaultMinRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
		NumWorkers:    DefaultNumWorkers,
		HealthzPort:   DefaultHealthzPort,
	}
}

// Register flags with the command line parser, klog flags included.
func Register() {
	klog.InitFlags(goflag.CommandLine)
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	F.AddFlags(flag.CommandLine)
}

// AddFlags binds f to fs.
func (f *Flags) AddFlags(fs *flag.FlagSet) {
	fs.Var(&f.Controllers, "controllers",
		`Controller to manage, in the form name=url, e.g.
--controllers=odc1=http://10.0.0.1:8181. Use the flag more than once, or a
comma separated list, to manage more than one controller.`)
	fs.DurationVar(&f.PollInterval, "poll-interval", f.PollInterval,
		`Refresh the topology of every controller this often.`)
	fs.DurationVar(&f.SouthboundTimeout, "southbound-timeout", f.SouthboundTimeout,
		`Timeout of one request to a controller.`)
	fs.Var(&f.SouthboundRateLimit, "southbound-ratelimit",
		`Optional, can be used to rate limit requests to the controllers. Example usage:
--southbound-ratelimit=port.Get,qps,1.5,5
(limit port.Get to maximum of 1.5 qps with a burst of 5).
Use the flag more than once to rate limit more than one call. If you specify
this flag, the defaults are overwritten.`)
	fs.IntVar(&f.MaxRetries, "max-retries", f.MaxRetries,
		`Consecutive failed syncs retried with backoff before falling back to the
poll interval. Zero retries forever.`)
	fs.DurationVar(&f.MinRetryDelay, "min-retry-delay", f.MinRetryDelay,
		`Minimum delay before retrying a failed sync.`)
	fs.DurationVar(&f.MaxRetryDelay, "max-retry-delay", f.MaxRetryDelay,
		`Maximum delay before retrying a failed sync.`)
	fs.IntVar(&f.NumWorkers, "num-workers", f.NumWorkers,
		`Number of parallel sync worker goroutines.`)
	fs.IntVar(&f.HealthzPort, "healthz-port", f.HealthzPort,
		`Port to run the healthz and metrics server.`)
	fs.BoolVar(&f.Version, "version", false,
		`Print the version of the driver and exit`)
}

// Validate checks the flag values and returns every problem found.
func (f *Flags) Validate() error {
	var result *multierror.Error
	if len(f.Controllers.Values()) == 0 {
		result = multierror.Append(result, fmt.Errorf("--controllers: at least one controller is required"))
	}
	for name, d := range map[string]time.Duration{
		"poll-interval":      f.PollInterval,
		"southbound-timeout": f.SouthboundTimeout,
		"min-retry-delay":    f.MinRetryDelay,
		"max-retry-delay":    f.MaxRetryDelay,
	} {
		if d <= 0 {
			result = multierror.Append(result, fmt.Errorf("--%s: must be positive, got %v", name, d))
		}
	}
	if f.MinRetryDelay > f.MaxRetryDelay {
		result = multierror.Append(result, fmt.Errorf("--min-retry-delay %v is greater than --max-retry-delay %v", f.MinRetryDelay, f.MaxRetryDelay))
	}
	if f.MaxRetries < 0 {
		result = multierror.Append(result, fmt.Errorf("--max-retries: must not be negative, got %d", f.MaxRetries))
	}
	if f.NumWorkers <= 0 {
		result = multierror.Append(result, fmt.Errorf("--num-workers: must be positive, got %d", f.NumWorkers))
	}
	if f.HealthzPort <= 0 || f.HealthzPort > 65535 {
		result = multierror.Append(result, fmt.Errorf("--healthz-port: %d is not a valid port", f.HealthzPort))
	}
	if err := ratelimit.ValidateSpecs(f.SouthboundRateLimit.Values()); err != nil {
		result = multierror.Append(result, fmt.Errorf("--southbound-ratelimit: %w", err))
	}
	return result.ErrorOrNil()
}

// ControllerSpec names one managed controller.
type ControllerSpec struct {
	Name    string
	Address string
}

// ControllerSpecs is a repeatable flag of name=url pairs.
type ControllerSpecs struct {
	specs []ControllerSpec
}

// Part of the flag.Value interface.
func (c *ControllerSpecs) String() string {
	var parts []string
	for _, s := range c.specs {
		parts = append(parts, s.Name+"="+s.Address)
	}
	return strings.Join(parts, ",")
}

// Set accepts a comma separated list and supports the flag being repeated.
// Part of the flag.Value interface.
func (c *ControllerSpecs) Set(value string) error {
	names := sets.New[string]()
	for _, s := range c.specs {
		names.Insert(s.Name)
	}
	for _, item := range strings.Split(value, ",") {
		name, address, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok || name == "" {
			return fmt.Errorf("controller spec %q is not of the form name=url", item)
		}
		u, err := url.Parse(address)
		if err != nil {
			return fmt.Errorf("controller %s: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("controller %s: address %q must be an http or https url", name, address)
		}
		if names.Has(name) {
			return fmt.Errorf("controller %s is specified more than once", name)
		}
		names.Insert(name)
		c.specs = append(c.specs, ControllerSpec{Name: name, Address: address})
	}
	return nil
}

func (c *ControllerSpecs) Values() []ControllerSpec {
	return c.specs
}

func (c *ControllerSpecs) Type() string {
	return "controllerSpecs"
}

type RateLimitSpecs struct {
	specs []string
	isSet bool
}

// Part of the flag.Value interface.
func (r *RateLimitSpecs) String() string {
	return strings.Join(r.specs, ";")
}

// Set supports the flag being repeated multiple times. Part of the flag.Value interface.
func (r *RateLimitSpecs) Set(value string) error {
	// On first Set(), clear the original defaults
	// On subsequent Set()'s, append.
	if !r.isSet {
		r.specs = []string{}
		r.isSet = true
	}
	r.specs = append(r.specs, value)
	return nil
}

func (r *RateLimitSpecs) Values() []string {
	return r.specs
}

func (r *RateLimitSpecs) Type() string {
	return "rateLimitSpecs"
}
