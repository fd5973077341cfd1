// Package config loads runtime configuration for the tripvault CLI.
//
// Values come from three layers, later ones winning:
//
//  1. Built-in defaults ((*Config).LoadDefaults).
//  2. A JSON file named by -c/-config or $TRIPVAULT_CONFIG.
//  3. Command-line flags.
//
// Flags:
//
//	-a string   address:port of the vault gRPC endpoint
//	-i int      online status check interval (seconds)
//	-d string   local SQLite database file
//	-o string   directory where opened documents are written
//
// JSON intervals accept a duration string ("3s") or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "database_path": "tripvault.db",
//	  "download_dir": "downloads"
//	}
package config
