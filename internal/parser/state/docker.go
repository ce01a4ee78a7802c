package state

import (
	"regexp"
	"strings"

	"github.com/coreway/termwatch/internal/model"
)

var (
	dockerPullPush   = regexp.MustCompile(`Pulling from|Pushing to|Downloading|Extracting|Waiting|\d+\.\d+[kMG]B/\d+\.\d+[kMG]B`)
	dockerBuild      = regexp.MustCompile(`^Step\s+\d+|^\s*--->|^Building|^#\d+\s`)
	dockerCompose    = regexp.MustCompile(`^(Creating|Starting|Stopping|Removing)\b`)
	dockerErrorRe    = regexp.MustCompile(`(?i)cannot connect to the docker daemon|permission denied|no such (image|container|file)|error response from daemon`)
	dockerPromptTail = regexp.MustCompile(`[$#>]\s*$`)
)

// Docker is the Docker CLI state detector (priority 50).
type Docker struct{}

// NewDocker constructs the Docker detector.
func NewDocker() *Docker { return &Docker{} }

func (d *Docker) Metadata() model.ParserMetadata {
	return model.ParserMetadata{Name: "state.docker", Description: "docker pull/push/build/compose progress detection", Priority: 50}
}

func (d *Docker) DetectState(ctx model.ParserContext) (model.StateResult, bool) {
	text := ctx.ScreenText
	if len(ctx.LastLines) > 0 {
		last := strings.TrimSpace(ctx.LastLines[len(ctx.LastLines)-1])
		if dockerErrorRe.MatchString(text) {
			return model.StateResult{State: model.StateError, Confidence: 0.9}, true
		}
		if dockerPullPush.MatchString(text) {
			return model.StateResult{State: model.StateToolRunning, Confidence: 0.85, Meta: map[string]any{"op": "pull/push"}}, true
		}
		if dockerBuild.MatchString(text) {
			return model.StateResult{State: model.StateToolRunning, Confidence: 0.85, Meta: map[string]any{"op": "build"}}, true
		}
		if dockerCompose.MatchString(text) {
			return model.StateResult{State: model.StateToolRunning, Confidence: 0.8, Meta: map[string]any{"op": "compose"}}, true
		}
		if dockerPromptTail.MatchString(last) {
			return model.StateResult{State: model.StateIdle, Confidence: 0.7}, true
		}
	}
	return model.StateResult{}, false
}
