package cmdutil

import (
	"errors"
	"fmt"

	"github.com/opmodel/extpack/internal/build"
	"github.com/opmodel/extpack/internal/config"
	oerrors "github.com/opmodel/extpack/internal/errors"
	"github.com/opmodel/extpack/internal/output"
)

// PrintBuildError prints a build failure in a user-friendly format. Stage
// failures are logged under the stage name; structured errors print their
// details.
func PrintBuildError(err error) {
	var stageErr *build.StageError
	if errors.As(err, &stageErr) {
		output.StageLogger(stageErr.Stage.String()).Error("stage failed", "error", stageErr.Err)
		err = stageErr.Err
	}

	var verrs config.ValidationErrors
	var detail *oerrors.DetailError
	switch {
	case errors.As(err, &verrs):
		PrintValidationError("configuration invalid", err)
	case errors.As(err, &detail):
		output.Details(detail.Error())
	case stageErr == nil:
		output.Error("build failed", "error", err)
	}
}

// WriteBuildSummary prints the completion line of a successful build.
func WriteBuildSummary(result *build.Result) {
	msg := fmt.Sprintf("Built %s", output.StyleNoun.Render(result.Target.Archive))
	if n := len(result.Units); n > 0 {
		msg += output.StyleDim.Render(fmt.Sprintf(" (%d compiled unit(s), %d warning(s))", n, result.Warnings))
	}
	output.Println(output.FormatCheckmark(msg))
}
