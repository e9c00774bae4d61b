package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandListen  Command = "listen"
	CommandAnalyze Command = "analyze"
	CommandStop    Command = "stop"
	CommandCancel  Command = "cancel"
	CommandStatus  Command = "status"
	CommandDoctor  Command = "doctor"
	CommandVersion Command = "version"
	CommandHelp    Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandListen:  {},
	CommandAnalyze: {},
	CommandStop:    {},
	CommandCancel:  {},
	CommandStatus:  {},
	CommandDoctor:  {},
	CommandVersion: {},
	CommandHelp:    {},
}

type Parsed struct {
	Command    Command
	ConfigPath string
	Text       string
	FilePath   string
	AudioURL   string
	ShowHelp   bool
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}
	commandSet := false

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case "--config":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]
		case "--text":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--text requires a value")
			}
			parsed.Text = args[i]
		case "--file":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--file requires a path")
			}
			parsed.FilePath = args[i]
		case "--url":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--url requires a value")
			}
			parsed.AudioURL = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}
			if commandSet {
				return Parsed{}, fmt.Errorf("unexpected argument after command: %s", arg)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp
			commandSet = true
		}
	}

	if err := validateInputs(parsed); err != nil {
		return Parsed{}, err
	}

	return parsed, nil
}

func validateInputs(parsed Parsed) error {
	inputs := 0
	for _, v := range []string{parsed.Text, parsed.FilePath, parsed.AudioURL} {
		if v != "" {
			inputs++
		}
	}

	if parsed.Command != CommandAnalyze {
		if inputs > 0 {
			return fmt.Errorf("--text, --file and --url are only valid with the analyze command")
		}
		return nil
	}

	if inputs == 0 {
		return errors.New("analyze requires one of --text, --file or --url")
	}
	if inputs > 1 {
		return errors.New("analyze accepts only one of --text, --file or --url")
	}
	return nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] <command> [options]

Commands:
  listen    Run the capture session and IPC control socket
  analyze   Submit a single transcript or audio input for analysis
  stop      Stop capturing in the running session and submit the transcript
  cancel    Cancel the active analysis or discard the current transcript
  status    Print the running session state
  doctor    Run configuration and environment checks
  version   Print version information
  help      Show this help

Analyze options:
  --text VALUE    Transcript text to analyze
  --file PATH     Audio file to encode and analyze
  --url VALUE     Remote audio URL to analyze

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/fraudshield/config.yaml)
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
