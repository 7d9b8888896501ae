package summary

// displayKinds maps the perception source's detector vocabulary (terse
// COCO-style class names) to the display vocabulary used in descriptions.
// Loaded once; never mutated at runtime.
var displayKinds = map[string]string{
	"car":           "car",
	"bicycle":       "bike",
	"motorbike":     "motorcycle",
	"bus":           "bus",
	"truck":         "truck",
	"dog":           "dog",
	"cat":           "cat",
	"person":        "person",
	"chair":         "chair",
	"diningtable":   "table",
	"cup":           "cup",
	"bottle":        "bottle",
	"book":          "book",
	"cell phone":    "phone",
	"laptop":        "laptop",
	"tvmonitor":     "television",
	"sofa":          "couch",
	"pottedplant":   "potted plant",
	"traffic light": "traffic light",
	"fire hydrant":  "hydrant",
}

// DisplayKind translates a source object kind to display vocabulary.
// Unknown kinds pass through unchanged.
func DisplayKind(kind string) string {
	if display, ok := displayKinds[kind]; ok {
		return display
	}
	return kind
}
