package configure

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	cmds "github.com/scanflow/scanctl/internal/cmd"
	"github.com/scanflow/scanctl/internal/credentials"
	"github.com/scanflow/scanctl/internal/iam"
	"github.com/scanflow/scanctl/internal/msg"
)

var (
	configureUse     = "configure"
	configureShort   = "Configure your scan server credentials"
	configureLong    = `Persist locally the url of your scan server and the credentials to access it`
	configureExample = `scanctl configure
scanctl configure --url https://scan.example.com/repo --token $TOKEN`
)

type options struct {
	URL      string
	Token    string
	Username string
	Password string
}

// Command creates the `configure` command
func Command() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:     configureUse,
		Short:   configureShort,
		Long:    configureLong,
		Example: configureExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := Run(opts); err != nil {
				log.Err(err).Msgf("failed to execute %s command", cmds.FullName(cmd))
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.URL, "url", "", "url of the scan server")
	cmd.Flags().StringVarP(&opts.Token, "token", "t", "", "access token")
	cmd.Flags().StringVarP(&opts.Username, "username", "u", "", "username, used to mint tokens if no token is given")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "password, used to mint tokens if no token is given")

	cmd.AddCommand(ListCommand())

	return cmd
}

func (o options) empty() bool {
	return o.URL == "" && o.Token == "" && o.Username == "" && o.Password == ""
}

// interactiveConfiguration expect user to manually type-in its credentials
func interactiveConfiguration() (iam.Credentials, error) {
	fmt.Println(msg.TokenMessage)

	creds := credentials.Get()

	println("") // visual paragraph break
	qs := []*survey.Question{
		{
			Name: "url",
			Prompt: &survey.Input{
				Message: "Server url",
				Default: creds.URL,
			},
			Validate: validateURL,
		},
		{
			Name: "token",
			Prompt: &survey.Password{
				Message: "Access token (leave empty to mint tokens from username and password)",
			},
		},
		{
			Name: "username",
			Prompt: &survey.Input{
				Message: "Username",
				Default: creds.Username,
			},
		},
		{
			Name: "password",
			Prompt: &survey.Password{
				Message: "Password",
			},
		},
	}

	answers := struct {
		URL      string `survey:"url"`
		Token    string `survey:"token"`
		Username string `survey:"username"`
		Password string `survey:"password"`
	}{}
	if err := survey.Ask(qs, &answers); err != nil {
		return creds, err
	}
	println() // visual paragraph break

	creds.URL = strings.TrimSpace(answers.URL)
	creds.Username = strings.TrimSpace(answers.Username)
	// Empty secrets keep what is stored already.
	if answers.Token != "" {
		creds.Token = answers.Token
	}
	if answers.Password != "" {
		creds.Password = answers.Password
	}

	return creds, nil
}

func validateURL(val interface{}) error {
	str, ok := val.(string)
	if !ok {
		return errors.New(msg.InvalidURL)
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return errors.New(msg.EmptyURL)
	}
	u, err := url.Parse(str)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New(msg.InvalidURL)
	}
	return nil
}

// Run starts the configure command
func Run(opts options) error {
	var creds iam.Credentials
	var err error

	switch {
	case opts.empty() && isTerm(os.Stdin.Fd()):
		creds, err = interactiveConfiguration()
	case opts.empty():
		return errors.New("no credentials given: use the flags of 'scanctl configure' when not running in a terminal")
	default:
		creds = iam.Credentials{
			URL:      opts.URL,
			Token:    opts.Token,
			Username: opts.Username,
			Password: opts.Password,
		}
	}
	if err != nil {
		return err
	}

	if err := validate(creds); err != nil {
		log.Error().Msg("The provided credentials appear to be invalid and will NOT be saved.")
		return err
	}
	if err := credentials.ToFile(creds); err != nil {
		return fmt.Errorf("unable to save credentials: %w", err)
	}
	println("You're all set!")
	return nil
}

func validate(creds iam.Credentials) error {
	if err := validateURL(creds.URL); err != nil {
		return err
	}
	if !creds.IsSet() {
		return errors.New(msg.MissingCredentials)
	}
	return nil
}

func isTerm(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
