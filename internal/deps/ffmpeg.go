package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// CheckFFmpeg resolves the ffmpeg binary audio assembly will execute.
// A configured path wins; otherwise the name is resolved from PATH the
// same way the assembler's exec call would.
func CheckFFmpeg(configuredBinary string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Concatenates speech chunks and mixes the music bed",
	}

	name := strings.TrimSpace(configuredBinary)
	if name == "" {
		name = "ffmpeg"
	}

	if resolved, err := exec.LookPath(name); err == nil {
		result.Command = resolved
		result.Available = true
		return result
	}

	result.Command = name
	result.Available = false
	result.Detail = fmt.Sprintf("binary %q not found", name)
	return result
}
