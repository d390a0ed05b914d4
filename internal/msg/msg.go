package msg

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
)

// ScanctlLogo is the ascii art banner of scanctl.
const ScanctlLogo = `
  ___  ___ __ _ _ __   ___| |_| |
 / __|/ __/ _' | '_ \ / __| __| |
 \__ \ (_| (_| | | | | (__| |_| |
 |___/\___\__,_|_| |_|\___|\__|_|`

// TokenMessage explains where to obtain an access token.
const TokenMessage = `Either provide an access token or a username and password, in which case scanctl mints a
short-lived token on each run. Tokens can be created in the web UI under Admin > Users > Edit user account.`

// LogRunSuccess prints out a summary statement of a successful upload and scan.
func LogRunSuccess(uploadID int) {
	msg := fmt.Sprintf(" Upload %d is being scanned! ", uploadID)
	dashes := strings.Repeat("─", len(msg)-2)
	log.Info().Msgf("┌%s┐", dashes)
	log.Info().Msg(msg)
	log.Info().Msgf("└%s┘", dashes)
}

// LogRunFailure prints out a failure summary statement naming the step that failed.
func LogRunFailure(step string) {
	msg := fmt.Sprintf(" Failed to %s ", step)
	dashes := strings.Repeat("─", len(msg)-2)
	log.Error().Msgf("┌%s┐", dashes)
	log.Error().Msg(msg)
	log.Error().Msgf("└%s┘", dashes)
}

// LogUnsupportedServer prints out a color coded warning about an outdated server.
func LogUnsupportedServer(have, want string) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Printf("\n%s: %s\n\n", red("WARNING"), fmt.Sprintf(UnsupportedServerVersion, have, want))
}
