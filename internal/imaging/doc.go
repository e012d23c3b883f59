// Package imaging loads image files and gets them ready for contour tracing.
//
// It covers the steps around the tracer in the contour package:
//   - ImageCache decodes PNG, JPEG and GIF files once and keeps them in memory
//   - Prepare crops, denoises and thresholds an image into a binary image
//   - RenderContours draws traced lines back onto the source image
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based, with (0,0) at the
// top-left, X increasing rightward and Y increasing downward. For regions,
// (x1,y1) is inclusive and (x2,y2) is exclusive.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Prepare and RenderContours never
// modify their input, so a cached image can be shared between goroutines.
//
// # Performance Considerations
//
// Large images may consume significant memory when cached. Long-running
// processes can use Evict or Clear to release them.
package imaging
