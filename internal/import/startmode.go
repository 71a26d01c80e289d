package imports

import "time"

// startModes maps STARTMODE keywords to activation policies. The first entry
// is the default for missing or unknown keywords.
var startModes = []struct {
	name    string
	control ControlPolicy
}{
	{"manual", ControlPolicy{Mandatory: true, Timeout: 30 * time.Second}},

	{"auto", ControlPolicy{LinkBoot: "boot", Persistent: true, Timeout: 30 * time.Second}},
	{"boot", ControlPolicy{LinkBoot: "boot", Persistent: true, Timeout: 30 * time.Second}},
	{"onboot", ControlPolicy{LinkBoot: "boot", Persistent: true, Timeout: 30 * time.Second}},
	{"on", ControlPolicy{LinkBoot: "boot", Persistent: true, Timeout: 30 * time.Second}},

	{"hotplug", ControlPolicy{LinkBoot: "boot", Timeout: 30 * time.Second}},
	{"ifplugd", ControlPolicy{LinkBoot: "ignore", Timeout: 30 * time.Second}},

	{"nfsroot", ControlPolicy{LinkBoot: "boot", RequireLink: "localfs", Mandatory: true, Persistent: true, Infinite: true}},
	{"off", ControlPolicy{LinkBoot: "off"}},
}

// ParseStartMode returns the control policy for a STARTMODE keyword.
// Keywords are case sensitive; anything unknown behaves like "manual".
func ParseStartMode(mode string) ControlPolicy {
	entry := startModes[0]
	for _, m := range startModes {
		if m.name == mode {
			entry = m
			break
		}
	}
	c := entry.control
	c.Mode = entry.name
	return c
}
