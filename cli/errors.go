package cli

import (
	"errors"

	"github.com/MakeNowJust/heredoc"
)

var (
	ErrConfigNotFound = errors.New(heredoc.Doc(`
	Config file not found. Loading from defaults...

	Run "fulltext config init" to initialize a new configuration file
	Run "fulltext help environment" for more information.

	Alternatively, make a "fulltext.yaml" file in the current directory from the example given
`))

	ErrNoModels = errors.New(`no models configured, declare them under "models" in the config file`)
)
