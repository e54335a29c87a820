package main

import "strings"

// expandTagArgs rewrites a multi-valued -t/--tags into repeated --tags=value
// tokens. Every argument after -t up to the next flag is a tag, so
// "-t a b c" tags with a, b and c. A short flag cluster ending in t ("-rt")
// opens the tag list too. "--" ends flag processing.
func expandTagArgs(args []string) []string {
	out := make([]string, 0, len(args))
	inTags := false

	for i, arg := range args {
		if arg == "--" {
			out = append(out, args[i:]...)
			return out
		}

		if inTags && !isFlag(arg) {
			out = append(out, "--tags="+arg)
			continue
		}
		inTags = false

		switch {
		case arg == "-t" || arg == "--tags":
			inTags = true
		case strings.HasPrefix(arg, "--tags="):
			out = append(out, arg)
		case isShortCluster(arg):
			cluster := arg[1:]
			if idx := strings.IndexByte(cluster, 't'); idx >= 0 {
				if idx > 0 {
					out = append(out, "-"+cluster[:idx])
				}
				if value := cluster[idx+1:]; value != "" {
					// -tfoo and -rtfoo carry a single attached value
					out = append(out, "--tags="+strings.TrimPrefix(value, "="))
				} else {
					inTags = true
				}
				continue
			}
			out = append(out, arg)
		default:
			out = append(out, arg)
		}
	}
	return out
}

func isFlag(arg string) bool {
	return len(arg) > 1 && arg[0] == '-'
}

func isShortCluster(arg string) bool {
	return len(arg) > 1 && arg[0] == '-' && arg[1] != '-'
}
