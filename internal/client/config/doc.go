// Package config loads settings for the gophauth CLI client.
//
// Sources, later ones winning:
//  1. defaults (LoadDefaults)
//  2. a JSON file named by -c / -config
//  3. environment variables GOPHAUTH_SERVER_ADDR, GOPHAUTH_ADMIN_TOKEN,
//     GOPHAUTH_ONLINE_CHECK_INTERVAL and GOPHAUTH_REQUEST_TIMEOUT
//  4. flags -a (server address), -k (admin token), -i (online check
//     interval in seconds) and -t (request timeout)
//
// JSON example:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "admin_token": "change-me",
//	  "online_check_interval": "3s",
//	  "request_timeout": "5s"
//	}
package config
