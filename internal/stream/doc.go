// Package stream serializes canvases as binary PPM (P6) frames.
//
// Each frame is self-describing:
//
//	P6\n<width> <height>\n255\n<width*height*3 bytes of RGB>
//
// so any number of frames can be written back to back on one sink and read
// by decoders (ffplay, ffmpeg's image2pipe, [Decoder]) that parse the header
// and then consume exactly the declared body. Alpha is never transmitted.
//
// An [Emitter] writes one complete frame per [Emitter.Emit] call and returns
// only after the frame has been handed to the sink, so a slow consumer
// throttles the producer. Write failures are returned as [*WriteError] and
// are never retried.
package stream
