/*
Earleyd starts an Earley parse server and begins listening for new connections.

Usage:

	earleyd [flags]
	earleyd [flags] -l [[ADDRESS]:PORT]

Once started, the server listens for HTTP requests and responds to them with a
REST API for storing grammars and parsing sentences against them. By default,
it will listen on localhost:8080. This can be changed with the --listen/-l flag
(or config via environment var). The flag argument must be either a full
address with port, such as "192.168.0.2:6001", or just the port preceeded by a
colon, such as ":6001".

If a JWT token secret is not given, one will be randomly generated. In this
mode of operation all tokens are rendered invalid as soon as the server shuts
down. This is suitable for testing, but a secret must be given via either CLI
flags or environment variable if running in production.

The flags are:

	--version
		Give the current version of the server and then exit.

	-v, --verbose
		Increase log verbosity. May be given more than once.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		EARLEY_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable EARLEY_TOKEN_SECRET. If no secret is specified, a random secret
		is generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of inmem or
		sqlite. inmem has no further params. sqlite needs the path to the data
		directory, such as sqlite:path/to/db_dir. If not given, will default to
		the value of environment variable EARLEY_DATABASE. If neither is given,
		an in-memory database is used.

	--max-trees N
		Return at most N parse trees per parse request. Defaults to environment
		variable EARLEY_MAX_TREES, or no limit.

	--max-steps N
		Stop tree extraction for a parse request after N steps. Defaults to
		environment variable EARLEY_MAX_STEPS, or 1000000.

	--max-grammars N
		Let each non-admin user store at most N grammars. An admin can give a
		user their own limit. Defaults to environment variable
		EARLEY_MAX_GRAMMARS, or 100.

	--admin-password PASSWORD
		Create an "admin" user with the given password at startup if one does
		not already exist. Defaults to environment variable
		EARLEY_ADMIN_PASSWORD.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/earley/internal/version"
	"github.com/dekarrin/earley/server"
	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"

	// Import the default commonlog backend.
	_ "github.com/tliron/commonlog/simple"
)

const (
	EnvListen        = "EARLEY_LISTEN_ADDRESS"
	EnvSecret        = "EARLEY_TOKEN_SECRET"
	EnvDB            = "EARLEY_DATABASE"
	EnvMaxTrees      = "EARLEY_MAX_TREES"
	EnvMaxSteps      = "EARLEY_MAX_STEPS"
	EnvMaxGrammars   = "EARLEY_MAX_GRAMMARS"
	EnvAdminPassword = "EARLEY_ADMIN_PASSWORD"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitStartupError
	ExitServeError
)

var (
	flagVersion   = pflag.Bool("version", false, "Give the current version of the server and then exit.")
	flagVerbose   = pflag.CountP("verbose", "v", "Increase log verbosity.")
	flagListen    = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret    = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB        = pflag.String("db", "", "Use the given DB connection string.")
	flagMaxTrees  = pflag.Int("max-trees", 0, "Return at most this many parse trees per request.")
	flagMaxSteps  = pflag.Int("max-steps", 0, "Stop tree extraction after this many steps.")
	flagMaxGramms = pflag.Int("max-grammars", 0, "Let each user store at most this many grammars.")
	flagAdminPass = pflag.String("admin-password", "", "Create an admin user with this password.")
)

var log = commonlog.GetLogger("earleyd")

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (earley v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	commonlog.Configure(*flagVerbose+1, nil)

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(ExitUsageError)
	}

	addr, port, err := parseListenAddress(stringSetting("listen", flagListen, EnvListen))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(ExitUsageError)
	}

	var cfg server.Config

	if connStr := stringSetting("db", flagDB, EnvDB); connStr != "" {
		cfg.DB, err = server.ParseDBConnString(connStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Not a valid DB string: %s\nDo -h for help.\n", err)
			os.Exit(ExitUsageError)
		}
	}

	cfg.MaxTrees, err = intSetting("max-trees", flagMaxTrees, EnvMaxTrees)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(ExitUsageError)
	}
	cfg.MaxSteps, err = intSetting("max-steps", flagMaxSteps, EnvMaxSteps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(ExitUsageError)
	}
	cfg.MaxGrammars, err = intSetting("max-grammars", flagMaxGramms, EnvMaxGrammars)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(ExitUsageError)
	}
	cfg.AdminPassword = stringSetting("admin-password", flagAdminPass, EnvAdminPassword)

	cfg.TokenSecret, err = tokenSecret(stringSetting("secret", flagSecret, EnvSecret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(ExitUsageError)
	}

	srv, err := server.New(cfg.FillDefaults())
	if err != nil {
		log.Criticalf("could not start server: %s", err)
		os.Exit(ExitStartupError)
	}
	defer srv.Close()
	log.Debug("server initialized")

	log.Infof("starting earley server %s...", version.ServerCurrent)
	if err := srv.ServeForever(addr, port); err != nil {
		log.Errorf("server stopped: %s", err)
		srv.Close()
		os.Exit(ExitServeError)
	}
}

// stringSetting gives the value of the named flag if it was set on the command
// line, otherwise the value of the environment variable env.
func stringSetting(name string, flagVal *string, env string) string {
	if pflag.Lookup(name).Changed {
		return *flagVal
	}
	return os.Getenv(env)
}

func intSetting(name string, flagVal *int, env string) (int, error) {
	if pflag.Lookup(name).Changed {
		return *flagVal, nil
	}
	envVal := os.Getenv(env)
	if envVal == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(envVal)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a valid number", env, envVal)
	}
	return n, nil
}

func parseListenAddress(listenAddr string) (addr string, port int, err error) {
	if listenAddr == "" {
		return "", 0, nil
	}

	bindParts := strings.SplitN(listenAddr, ":", 2)
	if len(bindParts) != 2 {
		return "", 0, fmt.Errorf("listen address is not in ADDRESS:PORT or :PORT format")
	}

	port, err = strconv.Atoi(bindParts[1])
	if err != nil {
		return "", 0, fmt.Errorf("%q is not a valid port number", bindParts[1])
	}
	return bindParts[0], port, nil
}

// tokenSecret repeats secret until it is at least server.MinSecretSize bytes.
// An empty secret is replaced with a random one of server.MaxSecretSize bytes.
func tokenSecret(secret string) ([]byte, error) {
	if secret == "" {
		tokSecret := make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(tokSecret); err != nil {
			return nil, fmt.Errorf("could not generate token secret: %w", err)
		}
		log.Warning("using generated token secret; all tokens issued will become invalid at shutdown")
		return tokSecret, nil
	}

	tokSecret := []byte(secret)
	for len(tokSecret) < server.MinSecretSize {
		doubled := make([]byte, len(tokSecret)*2)
		copy(doubled, tokSecret)
		copy(doubled[len(tokSecret):], tokSecret)
		tokSecret = doubled
	}

	if len(tokSecret) > server.MaxSecretSize {
		// keys would be chopped at 64, so rather than the user thinking they
		// have more security by giving a longer key, refuse to start.
		return nil, fmt.Errorf("token secret is %d bytes, but it must be <= %d bytes", len(tokSecret), server.MaxSecretSize)
	}
	return tokSecret, nil
}
