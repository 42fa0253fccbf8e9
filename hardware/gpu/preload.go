package gpu

// preload is copied to GPU RAM at reset. it is the TMS9900 support code
// that F18A software expects to find there
var preload = []uint8{
	0x02, 0x0f, 0x47, 0xfe, 0x10, 0x0d, 0x40, 0x36, 0x40, 0x5a, 0x40, 0x94, 0x40, 0xb4, 0x40, 0xfa,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0x0c, 0xa0, 0x41, 0x1c, 0x03, 0x40, 0x04, 0xc1, 0xd0, 0x60, 0x3f, 0x00, 0x09, 0x71, 0xc0, 0x21,
	0x40, 0x06, 0x06, 0x90, 0x10, 0xf7, 0xc0, 0x20, 0x3f, 0x02, 0xc0, 0x60, 0x3f, 0x04, 0xc0, 0xa0,
	0x3f, 0x06, 0xd0, 0xe0, 0x3f, 0x01, 0x13, 0x05, 0xd0, 0x10, 0xdc, 0x40, 0x06, 0x02, 0x16, 0xfd,
	0x10, 0x03, 0xdc, 0x70, 0x06, 0x02, 0x16, 0xfd, 0x04, 0x5b, 0x0d, 0x0b, 0x06, 0xa0, 0x40, 0xb4,
	0x0f, 0x0b, 0xc1, 0xc7, 0x13, 0x16, 0x04, 0xc0, 0xd0, 0x20, 0x60, 0x04, 0x0a, 0x30, 0xc0, 0xc0,
	0x04, 0xc1, 0x02, 0x02, 0x04, 0x00, 0xcc, 0x01, 0x06, 0x02, 0x16, 0xfd, 0x04, 0xc0, 0xd0, 0x20,
	0x41, 0x51, 0x06, 0xc0, 0x0a, 0x30, 0xa0, 0x03, 0x0c, 0xa0, 0x41, 0xae, 0xd8, 0x20, 0x41, 0x51,
	0xb0, 0x00, 0x04, 0x5b, 0xd8, 0x20, 0x41, 0x1a, 0x3f, 0x00, 0x02, 0x00, 0x41, 0xd6, 0xc8, 0x00,
	0x3f, 0x02, 0x02, 0x00, 0x40, 0x06, 0xc8, 0x00, 0x3f, 0x04, 0x02, 0x00, 0x40, 0x10, 0xc8, 0x00,
	0x3f, 0x06, 0x04, 0x5b, 0x04, 0xc7, 0xd0, 0x20, 0x3f, 0x01, 0x13, 0x13, 0xc0, 0x20, 0x41, 0x18,
	0x06, 0x00, 0x0c, 0xa0, 0x41, 0x52, 0x02, 0x04, 0x00, 0x05, 0x02, 0x05, 0x3f, 0x02, 0x02, 0x06,
	0x41, 0x42, 0x8d, 0xb5, 0x16, 0x03, 0x06, 0x04, 0x16, 0xfc, 0x10, 0x09, 0x06, 0x00, 0x16, 0xf1,
	0x10, 0x09, 0xc0, 0x20, 0x3f, 0x02, 0x0c, 0xa0, 0x41, 0x52, 0x80, 0x40, 0x14, 0x03, 0x0c, 0xa0,
	0x41, 0x9a, 0x05, 0x47, 0xd8, 0x07, 0xb0, 0x00, 0x04, 0x5b, 0x0d, 0x0b, 0x06, 0xa0, 0x40, 0xb4,
	0x0f, 0x0b, 0xc1, 0xc7, 0x13, 0x04, 0xc0, 0x20, 0x3f, 0x0c, 0x0c, 0xa0, 0x41, 0xae, 0x04, 0x5b,
	0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0x00, 0x41, 0x10,
	0x02, 0x01, 0x41, 0x15, 0x02, 0x02, 0x0b, 0x00, 0x03, 0xa0, 0x32, 0x02, 0x32, 0x30, 0x32, 0x30,
	0x32, 0x30, 0x36, 0x00, 0x02, 0x02, 0x00, 0x06, 0x36, 0x31, 0x06, 0x02, 0x16, 0xfd, 0x03, 0xc0,
	0x0c, 0x00, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x88, 0x00, 0x41, 0x18, 0x1a, 0x03, 0xc0, 0x60, 0x41, 0x18, 0x0c, 0x00, 0x0d, 0x00,
	0x0a, 0x40, 0x02, 0x01, 0x0b, 0x00, 0xa0, 0x20, 0x41, 0x16, 0x17, 0x01, 0x05, 0x81, 0xa0, 0x60,
	0x41, 0x14, 0x02, 0x03, 0x41, 0x42, 0x02, 0x02, 0x00, 0x10, 0x03, 0xa0, 0x32, 0x01, 0x06, 0xc1,
	0x32, 0x01, 0x32, 0x00, 0x06, 0xc0, 0x32, 0x00, 0x36, 0x00, 0x36, 0x33, 0x06, 0x02, 0x16, 0xfd,
	0x03, 0xc0, 0x0f, 0x00, 0xc0, 0x60, 0x41, 0x18, 0x0c, 0x00, 0x02, 0x00, 0x3f, 0x00, 0x02, 0x01,
	0x41, 0x42, 0x02, 0x02, 0x00, 0x08, 0xcc, 0x31, 0x06, 0x02, 0x16, 0xfd, 0x0c, 0x00, 0x02, 0x01,
	0x41, 0x4c, 0xd0, 0xa0, 0x41, 0x50, 0x06, 0xc2, 0xd0, 0xa0, 0x41, 0x4f, 0x02, 0x03, 0x0b, 0x00,
	0x03, 0xa0, 0x32, 0x03, 0x32, 0x31, 0x32, 0x31, 0x32, 0x31, 0x36, 0x01, 0x36, 0x30, 0x06, 0x02,
	0x16, 0xfd, 0x03, 0xc0, 0x0c, 0x00, 0x03, 0x40,
}
