package pprint

import "fmt"

// PrintBanner prints the NexusFlow wordmark with version and tagline.
func PrintBanner(version, buildDate string) {
	fmt.Fprintln(Out)
	fmt.Fprintln(Out, StylePrimary.Render("  ╔╗╔╔═╗═╗ ╦╦ ╦╔═╗  ╔═╗╦  ╔═╗╦ ╦"))
	fmt.Fprintln(Out, StyleAccent.Render("  ║║║║╣ ╔╩╦╝║ ║╚═╗  ╠╣ ║  ║ ║║║║"))
	fmt.Fprintln(Out, StyleMuted.Render("  ╝╚╝╚═╝╩ ╚═╚═╝╚═╝  ╚  ╩═╝╚═╝╚╩╝"))
	fmt.Fprintln(Out)

	versionStr := StyleAccent.Render("  " + version)
	if buildDate != "" {
		versionStr += StyleMuted.Render("  built " + buildDate)
	}
	fmt.Fprintln(Out, versionStr)
	fmt.Fprintln(Out)
}
