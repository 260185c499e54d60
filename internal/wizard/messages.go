package wizard

import "mdk-wizard/internal/interfaces"

var (
	settingsNotFound = interfaces.Problem{
		Step:        StepSettings,
		Title:       "MDK settings not found",
		Description: "The MDK options could not be loaded. Fix the options file, then retry.",
	}
	binPathNotFound = interfaces.Problem{
		Step:  StepBinPath,
		Title: "Space Engineers bin path not found",
		Description: "The Space Engineers Bin64 folder could not be found. Make sure the game is " +
			"installed, or set a manual game bin path in the MDK options. Starting the game once may help.",
	}
	cannotCreateOutputPath = interfaces.Problem{
		Step:        StepOutputPath,
		Title:       "Cannot create output path",
		Description: "The script output folder could not be created. Check the output path in the MDK options.",
	}
	cannotFindInstallPath = interfaces.Problem{
		Step:        StepInstallPath,
		Title:       "Cannot find MDK path",
		Description: "The MDK installation folder could not be found. Reinstalling MDK may fix this.",
	}
	confirmedPathInvalid = interfaces.Problem{
		Step:        StepConfirm,
		Title:       "Invalid path",
		Description: "One of the confirmed paths is not usable. Retry to edit the settings again.",
	}
)
