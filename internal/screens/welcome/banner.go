package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/edututor/internal/ui/theme"
)

const bannerArt = `
 ███████╗██████╗ ██╗   ██╗████████╗██╗   ██╗████████╗ ██████╗ ██████╗
 ██╔════╝██╔══██╗██║   ██║╚══██╔══╝██║   ██║╚══██╔══╝██╔═══██╗██╔══██╗
 █████╗  ██║  ██║██║   ██║   ██║   ██║   ██║   ██║   ██║   ██║██████╔╝
 ██╔══╝  ██║  ██║██║   ██║   ██║   ██║   ██║   ██║   ██║   ██║██╔══██╗
 ███████╗██████╔╝╚██████╔╝   ██║   ╚██████╔╝   ██║   ╚██████╔╝██║  ██║
 ╚══════╝╚═════╝  ╚═════╝    ╚═╝    ╚═════╝    ╚═╝    ╚═════╝ ╚═╝  ╚═╝`

const bannerCompact = "E D U T U T O R"

// RenderBanner returns the EDUTUTOR banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 72 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 72 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
