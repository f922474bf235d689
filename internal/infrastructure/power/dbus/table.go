// Package dbus implements the multi-endpoint inhibition backend over
// the desktop session and system buses.
package dbus

import (
	godbus "github.com/godbus/dbus/v5"

	"github.com/bnema/nosuspend/internal/domain/inhibit"
)

// callStyle selects the acquire/release call shape an endpoint speaks.
type callStyle int

const (
	// styleFreedesktop: Inhibit(appName, reason) -> uint32 cookie,
	// UnInhibit(cookie). The most widespread shape; also spoken by
	// the KDE and XFCE power managers and the screensaver services.
	styleFreedesktop callStyle = iota

	// styleSession: GNOME/MATE session manager shape:
	// Inhibit(appName, toplevelXID, reason, flags) -> uint32 cookie,
	// Uninhibit(cookie).
	styleSession

	// stylePolicyAgent: KDE policy agent shape:
	// AddInhibition(type, appName, reason) -> uint32 cookie,
	// ReleaseInhibition(cookie).
	stylePolicyAgent

	// styleLogind: systemd-logind shape: Inhibit(what, who, why,
	// mode) -> file descriptor; releasing means closing the fd.
	styleLogind
)

// endpointSpec is one row of the declarative discovery table:
// a capability group served by one object path reachable under one or
// more candidate bus names (different desktops register the same
// service under different aliases).
type endpointSpec struct {
	group string
	names []string
	path  godbus.ObjectPath
	iface string
	style callStyle
}

// endpointTable lists every inhibitor service worth probing. Discovery
// runs each row once at backend construction against both buses; the
// result is immutable for the process lifetime.
var endpointTable = []endpointSpec{
	{
		group: inhibit.GroupSuspend,
		names: []string{
			"org.freedesktop.PowerManagement",
			"org.kde.powerdevil",
			"org.xfce.PowerManager",
		},
		path:  "/org/freedesktop/PowerManagement/Inhibit",
		iface: "org.freedesktop.PowerManagement.Inhibit",
		style: styleFreedesktop,
	},
	{
		group: inhibit.GroupSuspend,
		names: []string{"org.freedesktop.login1"},
		path:  "/org/freedesktop/login1",
		iface: "org.freedesktop.login1.Manager",
		style: styleLogind,
	},
	{
		group: inhibit.GroupSuspend,
		names: []string{"org.gnome.SessionManager"},
		path:  "/org/gnome/SessionManager",
		iface: "org.gnome.SessionManager",
		style: styleSession,
	},
	{
		group: inhibit.GroupSuspend,
		names: []string{"org.mate.SessionManager"},
		path:  "/org/mate/SessionManager",
		iface: "org.mate.SessionManager",
		style: styleSession,
	},
	{
		group: inhibit.GroupSuspend,
		names: []string{"org.kde.kded"},
		path:  "/org/kde/Solid/PowerManagement/PolicyAgent",
		iface: "org.kde.Solid.PowerManagement.PolicyAgent",
		style: stylePolicyAgent,
	},
	{
		group: inhibit.GroupScreensaver,
		names: []string{"org.freedesktop.ScreenSaver"},
		path:  "/org/freedesktop/ScreenSaver",
		iface: "org.freedesktop.ScreenSaver",
		style: styleFreedesktop,
	},
	{
		group: inhibit.GroupScreensaver,
		names: []string{"org.gnome.ScreenSaver"},
		path:  "/org/gnome/ScreenSaver",
		iface: "org.gnome.ScreenSaver",
		style: styleFreedesktop,
	},
}

// gnomeInhibitSuspend is the GNOME session manager flag for "inhibit
// suspending the session or computer".
const gnomeInhibitSuspend uint32 = 4

// policyAgentInterruptSession is the PowerDevil inhibition type
// matching a sleep block.
const policyAgentInterruptSession uint32 = 1
