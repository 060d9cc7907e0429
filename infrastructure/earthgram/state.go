package earthgram

import "github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"

// stateFrom maps the library's out-parameters onto an AtmosphereState.
func stateFrom(out *[numOutputs]float64) entities.AtmosphereState {
	return entities.AtmosphereState{
		Density: out[outDensity],

		MeanPressure:    out[outPm],
		MeanTemperature: out[outTm],
		MeanWindU:       out[outUm],
		MeanWindV:       out[outVm],
		MeanWindW:       out[outWm],

		PerturbedDensity:     out[outDp],
		PerturbedPressure:    out[outPp],
		PerturbedTemperature: out[outTp],
		PerturbedWindU:       out[outUp],
		PerturbedWindV:       out[outVp],
		PerturbedWindW:       out[outWp],

		StdDevDensity:     out[outDs],
		StdDevPressure:    out[outPs],
		StdDevTemperature: out[outTs],
		StdDevWindU:       out[outUs],
		StdDevWindV:       out[outVs],
		StdDevWindW:       out[outWs],

		SmallScaleDensity:     out[outDsmall],
		SmallScalePressure:    out[outPsmall],
		SmallScaleTemperature: out[outTsmall],
		SmallScaleWindU:       out[outUsmall],
		SmallScaleWindV:       out[outVsmall],
		SmallScaleWindW:       out[outWsmall],

		SpeedOfSound:          out[outSos],
		PerturbedSpeedOfSound: out[outSosp],
	}
}
