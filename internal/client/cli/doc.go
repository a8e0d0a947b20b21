// Package cli provides the interactive katta command-line client.
//
// It wires configuration, the HTTP API client, and the profile session cache
// into a small REPL. Commands take positional arguments and key=value pairs;
// values may be quoted to include spaces:
//
//	login u1
//	profile edit city=Goa about="Muralist and illustrator" profileImage=@./me.png
//	job create title="Mural Artist" company=Katta postedDate=2024-03-01
//	job edit 3f2c... postedDate=2024-03-01 salary="₹40k"
//	job list 2024-02-01 2024-03-31
//	upload resumes ./cv.pdf
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
