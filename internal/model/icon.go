// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Icon names a service icon from the fixed set the site can render.
type Icon string

const (
	IconNetwork    Icon = "Network"
	IconTelescope  Icon = "Telescope"
	IconCompass    Icon = "Compass"
	IconGauge      Icon = "Gauge"
	IconBriefcase  Icon = "Briefcase"
	IconTarget     Icon = "Target"
	IconAward      Icon = "Award"
	IconZap        Icon = "Zap"
	IconGlobe      Icon = "Globe"
	IconRocket     Icon = "Rocket"
	IconCode       Icon = "Code"
	IconDatabase   Icon = "Database"
	IconShield     Icon = "Shield"
	IconTrendingUp Icon = "TrendingUp"
	IconUsers      Icon = "Users"
	IconSettings   Icon = "Settings"
)

// DefaultIcon is used for new entries and unknown names.
const DefaultIcon = IconNetwork

// Icons lists every icon in picker order.
var Icons = []Icon{
	IconNetwork, IconTelescope, IconCompass, IconGauge,
	IconBriefcase, IconTarget, IconAward, IconZap,
	IconGlobe, IconRocket, IconCode, IconDatabase,
	IconShield, IconTrendingUp, IconUsers, IconSettings,
}

var iconSet = func() map[Icon]struct{} {
	m := make(map[Icon]struct{}, len(Icons))
	for _, i := range Icons {
		m[i] = struct{}{}
	}
	return m
}()

// Valid reports whether i is one of Icons.
func (i Icon) Valid() bool {
	_, ok := iconSet[i]
	return ok
}

func (i Icon) String() string { return string(i) }

// ParseIcon maps a stored or submitted name onto the enumeration.
// Unknown names become DefaultIcon.
func ParseIcon(name string) Icon {
	if i := Icon(name); i.Valid() {
		return i
	}
	return DefaultIcon
}
