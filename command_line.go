package ch2

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type MakeStoreFunc func() Store

var (
	Commands = map[string]bool{
		"load":     true,
		"describe": true,
	}
	// Stores backed by a database are registered by the binding package.
	Stores = map[string]MakeStoreFunc{
		"file": func() Store {
			return NewFileStore()
		},
		"basic": func() Store {
			return NewBasicStore()
		},
	}
	OptionPrefixes = []string{"--", "-"}
	OptionList     = []*Option{
		&Option{
			Name:            "P",
			HasArgument:     true,
			HasDefaultValue: false,
			Doc:             "specify a property file",
		},
		&Option{
			Name:            "p",
			HasArgument:     true,
			HasDefaultValue: false,
			Doc:             "specify a property value",
		},
		&Option{
			Name:            "s",
			HasArgument:     false,
			HasDefaultValue: false,
			Doc:             "print output to stderr",
		},
		&Option{
			Name:            "store",
			HasArgument:     true,
			HasDefaultValue: false,
			Doc:             "use a specified store(can also set the \"store\" property)",
		},
		&Option{
			Name:            "schema",
			HasArgument:     true,
			HasDefaultValue: true,
			DefaultValue:    PropertySchemaDefault,
			Doc:             "use the schema variant instead of the default %s",
		},
		&Option{
			Name:            "h",
			HasArgument:     false,
			HasDefaultValue: false,
			Doc:             "show this help message and exit",
		},
		&Option{
			Name:            "help",
			HasArgument:     false,
			HasDefaultValue: false,
			Doc:             "show this help message and exit",
		},
	}
	Options = make(map[string]*Option)

	ProgramName = ""
	OutputDest  io.Writer
)

type Option struct {
	Name            string
	HasArgument     bool
	HasDefaultValue bool
	DefaultValue    string
	Doc             string
}

type Arguments struct {
	Command string
	Store   string
	Options map[string]string
	Properties
}

func Usage() {
	usageFormat := `usage: %s command [store] [options]

Commands:
  load               Generate the documents of a CH2 database
  describe           Print the document shape of every table

Stores:
  file               One JSON-lines file per output unit (default)
  basic              A demo store that does nothing but echo the units
  mysql              Rows of a MySQL table
  sqlite             Rows of a SQLite table
  mongodb            Documents of a MongoDB collection per table

Options:
  -P filename      : specify a property file, key=value lines or YAML
  -p name=value    : specify a property value
  -s               : print output to stderr
  -store name      : use a specified store(can also set the "store" property)
  -schema variant  : use the schema variant instead of the default %s
                     (CH2, CH2P, CH2PP or CH2PPF)

optional arguments:
  -h, --help         show this help message and exit`
	Println(usageFormat, ProgramName, PropertySchemaDefault)
}

func init() {
	ProgramName = filepath.Base(os.Args[0])

	// init options
	for i := 0; i < len(OptionList); i++ {
		o := OptionList[i]
		Options[o.Name] = o
	}
	OutputDest = os.Stdout
}

func ExitOnError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintln(os.Stderr)
	os.Exit(1)
}

// ErrHelp is returned by ParseArgs when help is requested.
var ErrHelp = errors.New("help requested")

// ParseArgs parses the arguments following the program name.
func ParseArgs(argv []string) (*Arguments, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("no enough argument")
	}
	index := 0
	command := argv[index]
	if command == "-h" || command == "--help" {
		return nil, ErrHelp
	}
	if _, ok := Commands[command]; !ok {
		return nil, fmt.Errorf("unsupported command: %s", command)
	}
	index++

	// init options to be returned with default values
	opts := make(map[string]string)
	for name, opt := range Options {
		if opt.HasDefaultValue {
			opts[name] = opt.DefaultValue
		}
	}
	// init property to be returned
	props := NewProperties()
	// explicit arguments override property files, whatever their order
	overrides := NewProperties()
	if index < len(argv) && !strings.HasPrefix(argv[index], "-") {
		overrides.Add(PropertyStore, argv[index])
		index++
	}
	for i := index; i < len(argv); i++ {
		a := argv[i]
		for _, p := range OptionPrefixes {
			if strings.HasPrefix(a, p) {
				a = strings.TrimPrefix(a, p)
				break
			}
		}
		option, ok := Options[a]
		if !ok {
			return nil, fmt.Errorf("unknown option: %s", argv[i])
		}
		if !option.HasArgument {
			switch option.Name {
			case "s":
				OutputDest = os.Stderr
			case "h", "help":
				return nil, ErrHelp
			}
			opts[option.Name] = "true"
			continue
		}
		i++
		if !(i < len(argv)) {
			return nil, fmt.Errorf("missing argument for option: %s", option.Name)
		}
		arg := argv[i]
		switch option.Name {
		case "store":
			overrides.Add(PropertyStore, arg)
		case "schema":
			overrides.Add(PropertySchema, arg)
		case "p":
			// it's a property, should be in `k=v` form
			parts := strings.SplitN(arg, "=", 2)
			if len(parts) != 2 {
				return nil, fmt.Errorf("invalid property: %s", arg)
			}
			overrides.Add(parts[0], parts[1])
		case "P":
			propsFromFile, err := LoadProperties(arg)
			if err != nil {
				return nil, err
			}
			props.Merge(propsFromFile)
		}
		opts[option.Name] = arg
	}
	props.Merge(overrides)
	store := props.GetDefault(PropertyStore, PropertyStoreDefault)
	if _, ok := Stores[store]; !ok {
		return nil, fmt.Errorf("unsupported store: %s", store)
	}
	return &Arguments{
		Command:    command,
		Store:      store,
		Options:    opts,
		Properties: props,
	}, nil
}

func Main() {
	args, err := ParseArgs(os.Args[1:])
	if err == ErrHelp {
		Usage()
		os.Exit(0)
	}
	if err != nil {
		ExitOnError("%s", err)
	}
	var client Client
	switch args.Command {
	case "load":
		client = NewLoadClient(args)
	case "describe":
		client = NewDescribeClient(args)
	default:
		ExitOnError("invalid command: %s", args.Command)
	}
	client.Main()
}
