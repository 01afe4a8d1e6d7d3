package dtex

import "fmt"

// TextureType is the logical shape of a texture.
type TextureType uint8

const (
	Texture1D TextureType = iota
	Texture1DArray
	Texture2D
	Texture2DArray
	Texture3D
	TextureCube
	TextureCubeArray
)

func (t TextureType) String() string {
	switch t {
	case Texture1D:
		return "1D"
	case Texture1DArray:
		return "1D array"
	case Texture2D:
		return "2D"
	case Texture2DArray:
		return "2D array"
	case Texture3D:
		return "3D"
	case TextureCube:
		return "cube"
	case TextureCubeArray:
		return "cube array"
	default:
		return fmt.Sprintf("TextureType(%d)", uint8(t))
	}
}

func (t TextureType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// InferTextureType derives the texture shape from its base extent and layer
// count. Cube faces cannot be told apart from array layers by dimensions, so
// cube is the decoder's hint. Layers of volume textures are ignored.
func InferTextureType(base Dimensions, layers uint32, cube bool) TextureType {
	switch {
	case base.Depth > 1:
		return Texture3D
	case cube && layers > 6:
		return TextureCubeArray
	case cube:
		return TextureCube
	case base.Height <= 1 && layers > 1:
		return Texture1DArray
	case base.Height <= 1:
		return Texture1D
	case layers > 1:
		return Texture2DArray
	default:
		return Texture2D
	}
}
