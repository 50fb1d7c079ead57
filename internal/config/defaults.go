package config

// Defaults mirror the compiled-in constants of the original daemon. All of
// them remain overridable via the config file or CLI flags.
const (
	DefaultMode = ModeBlur

	DefaultNumThreads = 1

	DefaultInDev    = "/dev/video0"
	DefaultInFmt    = "MJPG"
	DefaultInWidth  = 1280
	DefaultInHeight = 720
	DefaultInFPS    = 30.0

	DefaultOutDev    = "/dev/video10"
	DefaultOutFmt    = "MJPG"
	DefaultOutWidth  = 1280
	DefaultOutHeight = 720
	DefaultOutFPS    = 30.0

	DefaultBgImagePath = "assets/background.png"

	DefaultSegmModelPath = "models/segm/segm_lite_v681.tflite"
	DefaultFaceModelPath = "models/face/face_smpl_320p.tflite"

	DefaultMaskFilterRadius     = 2
	DefaultEdgeFilterRadius     = 3
	DefaultBlurFilterRadius     = 3
	DefaultBlurFilterComponents = 2
	DefaultBlurFilterTransition = 0.4

	DefaultJPEGQuality = 95

	DefaultFaceTopK          = 10
	DefaultFaceScoreThresh   = 0.8
	DefaultFaceIoUThresh     = 0.2
	DefaultFaceTemporalAlpha = 0.9
	DefaultFaceJerkTolerance = 0.3
	DefaultFacePadUp         = 0.50
	DefaultFacePadDown       = 0.25
	DefaultFacePadLeft       = 0.50
	DefaultFacePadRight      = 0.50

	// DefaultConfigFile is consulted when no --config flag is given. A
	// missing file is not fatal; compiled-in defaults remain in effect.
	DefaultConfigFile = "/etc/spotlight.conf"
)

// Defaults returns a freshly populated PipelineConfig using the constants
// above. Callers layer config-file values and then CLI flags on top.
func Defaults() PipelineConfig {
	inFmt, _ := ParseFourCC(DefaultInFmt)
	outFmt, _ := ParseFourCC(DefaultOutFmt)

	return PipelineConfig{
		NumThreads: DefaultNumThreads,
		Mode:       DefaultMode,

		InDev:    DefaultInDev,
		InFmt:    inFmt,
		InWidth:  DefaultInWidth,
		InHeight: DefaultInHeight,
		InFPS:    DefaultInFPS,

		OutDev:    DefaultOutDev,
		OutFmt:    outFmt,
		OutWidth:  DefaultOutWidth,
		OutHeight: DefaultOutHeight,
		OutFPS:    DefaultOutFPS,

		BgImagePath: DefaultBgImagePath,

		SegmModelPath: DefaultSegmModelPath,

		MaskFilterRadius:     DefaultMaskFilterRadius,
		EdgeFilterRadius:     DefaultEdgeFilterRadius,
		BlurFilterRadius:     DefaultBlurFilterRadius,
		BlurFilterComponents: DefaultBlurFilterComponents,
		BlurFilterTransition: DefaultBlurFilterTransition,

		JPEGQuality: DefaultJPEGQuality,

		Face: FaceConfig{
			ModelPath:      DefaultFaceModelPath,
			TopK:           DefaultFaceTopK,
			ScoreThreshold: DefaultFaceScoreThresh,
			IoUThreshold:   DefaultFaceIoUThresh,
			TemporalAlpha:  DefaultFaceTemporalAlpha,
			JerkTolerance:  DefaultFaceJerkTolerance,
			PadUp:          DefaultFacePadUp,
			PadDown:        DefaultFacePadDown,
			PadLeft:        DefaultFacePadLeft,
			PadRight:       DefaultFacePadRight,
		},
	}
}
