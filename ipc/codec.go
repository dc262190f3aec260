package ipc

import (
	"consolebridge/compress"
	"consolebridge/compress/gzip"
	"consolebridge/compress/lz4"
	"consolebridge/compress/snappy"
	"consolebridge/compress/zlib"
	"consolebridge/internal/errs"
	"consolebridge/serialize"
	"consolebridge/serialize/json"
	"consolebridge/serialize/proto"
)

// Compressors lists every compressor the host understands.
func Compressors() []compress.Compressor {
	return []compress.Compressor{
		compress.DoNothingCompressor{},
		gzip.Compressor{},
		lz4.Compressor{},
		snappy.Compressor{},
		zlib.Compressor{},
	}
}

func Serializers() []serialize.Serializer {
	return []serialize.Serializer{
		json.Serializer{},
		proto.Serializer{},
	}
}

// CompressorByName maps a config value to a compressor. "" and "none" mean
// no compression.
func CompressorByName(name string) (compress.Compressor, error) {
	switch name {
	case "", "none":
		return compress.DoNothingCompressor{}, nil
	case "gzip":
		return gzip.Compressor{}, nil
	case "lz4":
		return lz4.Compressor{}, nil
	case "snappy":
		return snappy.Compressor{}, nil
	case "zlib":
		return zlib.Compressor{}, nil
	default:
		return nil, errs.UnknownCodec(name)
	}
}

func SerializerByName(name string) (serialize.Serializer, error) {
	switch name {
	case "", "json":
		return json.Serializer{}, nil
	case "proto":
		return proto.Serializer{}, nil
	default:
		return nil, errs.UnknownCodec(name)
	}
}
