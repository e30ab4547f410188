// Package config manages assistlink's settings file and environment overrides.
//
// Settings are resolved in order, each layer overriding the previous one:
//
//  1. DefaultSettings (127.0.0.1, ports 5002 then 5004, 2s probe, 10s request)
//  2. the YAML file (see GetConfigPath)
//  3. ASSISTLINK_* environment variables, including those from a .env file
//  4. command-line flags (applied by the caller)
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/assistlink/config.yaml or $HOME/.config/assistlink/config.yaml
//   - macOS: $HOME/.config/assistlink/config.yaml
//   - Windows: %LOCALAPPDATA%\assistlink\config.yaml
//
// ASSISTLINK_CONFIG points at a different file.
//
// # Usage Example
//
//	_ = config.LoadDotEnv()
//	settings, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := settings.ApplyEnv(); err != nil {
//	    log.Fatal(err)
//	}
//
//	client := settings.NewClient(nil)
//	resp, err := client.Get(ctx, "/commands")
package config
