// Package blobunpack strips the trailing byte from every 32-byte field of
// one or more fixed-layout binary blobs and concatenates what remains.
//
// Each input blob is a sequence of 32-byte fields. Only the first 31 bytes of
// each field carry payload; the 32nd byte is dropped without inspection. The
// decoded output is the concatenation of every kept 31-byte slice, in the
// order the blobs are given and the order fields appear within each blob:
//
//	len(output) == sum(len(blob_i) / 32 * 31)
//
// # Quick Start
//
// Decode two blobs and write the result to stdout:
//
//	u := blobunpack.New()
//	if _, err := u.UnpackTo(os.Stdout, []string{"blob1.bin", "blob2.bin"}); err != nil {
//	    return err
//	}
//
// Decode a blob already held in memory:
//
//	out, err := blobunpack.Strip(raw)
//
// # Errors
//
// A blob whose length is not a multiple of 32 fails with a
// [*MalformedInputError], which matches [ErrMalformedInput]. Calling
// [Unpacker.Run] or [Unpacker.UnpackTo] without paths fails with [ErrUsage].
// [Unpacker.UnpackTo] writes nothing unless every input decodes.
//
// The eip4844, frame, channel and rlpdump subpackages decode the payload of
// OP-stack batcher blobs for deeper inspection.
package blobunpack
