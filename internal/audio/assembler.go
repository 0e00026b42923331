package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/ld100/peacedoon/internal/logging"
	"github.com/ld100/peacedoon/internal/services"
)

var commandContext = exec.CommandContext

// ErrNoAudio indicates an assemble call with zero rendered chunks.
var ErrNoAudio = errors.New("no audio chunks to assemble")

// Chunk is one rendered speech segment. Index is the position within the
// article's chunk sequence, starting at zero.
type Chunk struct {
	Index int
	Path  string
}

// AssemblerConfig carries the mixing settings for an Assembler.
type AssemblerConfig struct {
	FFmpegBinary  string
	MusicPath     string
	AttenuationDb float64
}

// Assembler concatenates speech chunks and, when a music path is
// configured, mixes an attenuated looping bed under the voice track.
type Assembler struct {
	binary        string
	musicPath     string
	attenuationDb float64
	logger        *slog.Logger
}

// NewAssembler builds an assembler from config.
func NewAssembler(cfg AssemblerConfig, logger *slog.Logger) *Assembler {
	binary := cfg.FFmpegBinary
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Assembler{
		binary:        binary,
		musicPath:     cfg.MusicPath,
		attenuationDb: cfg.AttenuationDb,
		logger:        logging.NewComponentLogger(logger, "audio"),
	}
}

// Assemble joins chunks in index order into outputPath. The chunk sequence
// must be contiguous from zero; a gap means a synthesis result went missing
// and the episode would skip content, so it fails the call. Source chunk
// files are not removed.
func (a *Assembler) Assemble(ctx context.Context, chunks []Chunk, outputPath string) error {
	if len(chunks) == 0 {
		return services.Wrap(services.ErrValidation, "audio", "assemble", outputPath, ErrNoAudio)
	}

	ordered := make([]Chunk, len(chunks))
	copy(ordered, chunks)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })
	for i, chunk := range ordered {
		if chunk.Index != i {
			return services.Wrap(services.ErrValidation, "audio", "assemble",
				fmt.Sprintf("chunk sequence has a gap: expected index %d, found %d", i, chunk.Index), nil)
		}
	}

	listPath := outputPath + ".concat.txt"
	if err := writeConcatList(listPath, ordered); err != nil {
		return services.Wrap(services.ErrExternalTool, "audio", "assemble", "write concat list", err)
	}

	args := a.buildArgs(listPath, outputPath)
	logger := logging.WithContext(ctx, a.logger)
	logger.Debug("running ffmpeg",
		logging.String(logging.FieldStage, "assemble"),
		logging.String("output", outputPath),
		logging.Int("chunks", len(ordered)),
		logging.Bool("music", a.musicPath != ""),
	)

	cmd := commandContext(ctx, a.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		logger.Error("ffmpeg invocation failed",
			logging.String(logging.FieldStage, "assemble"),
			logging.String(logging.FieldErrorHint, "run 'peacedoon deps' to verify the ffmpeg installation"),
			logging.Error(err),
		)
		return services.Wrap(services.ErrExternalTool, "audio", "assemble",
			fmt.Sprintf("ffmpeg failed: %s", tail(string(output), 2048)), err)
	}
	return nil
}

// buildArgs constructs the ffmpeg invocation. With music configured the
// bed is looped for the duration of the voice track and attenuated before
// mixing; amix duration=first keeps the episode exactly as long as the
// speech.
func (a *Assembler) buildArgs(listPath, outputPath string) []string {
	args := []string{"-hide_banner", "-nostdin", "-y", "-f", "concat", "-safe", "0", "-i", listPath}
	if a.musicPath != "" {
		filter := fmt.Sprintf(
			"[1:a]volume=%gdB[bed];[0:a][bed]amix=inputs=2:duration=first:dropout_transition=0:normalize=0[mix]",
			a.attenuationDb,
		)
		args = append(args,
			"-stream_loop", "-1", "-i", a.musicPath,
			"-filter_complex", filter,
			"-map", "[mix]",
		)
	}
	args = append(args, "-codec:a", "libmp3lame", outputPath)
	return args
}

// writeConcatList emits the ffmpeg concat-demuxer list. Single quotes in
// paths use the demuxer's '\'' escape.
func writeConcatList(path string, chunks []Chunk) error {
	var b strings.Builder
	for _, chunk := range chunks {
		escaped := strings.ReplaceAll(chunk.Path, "'", `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func tail(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[len(s)-limit:]
}
