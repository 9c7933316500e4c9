package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"
)

// Minimal OpenRGB SDK client. The server speaks a length-prefixed binary
// protocol over TCP: a 16-byte header (magic, device index, command id,
// payload size) followed by the payload. Only the commands this tool needs
// are implemented, at protocol version 0.
const (
	orgbMagic = "ORGB"

	orgbRequestControllerCount = 0
	orgbRequestControllerData  = 1
	orgbSetClientName          = 50
	orgbUpdateLEDs             = 1050
)

const orgbDefaultAddress = "127.0.0.1:6742"

type openRGBClient struct {
	conn net.Conn
}

// rgbController is the subset of controller data the tool cares about:
// enough to pick a device by name and to fill every LED with one color.
type rgbController struct {
	ID   int
	Name string
	LEDs int
}

func dialOpenRGB(addr, clientName string) (*openRGBClient, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to OpenRGB at %s: %w", addr, err)
	}
	c := &openRGBClient{conn: conn}
	if err := c.send(0, orgbSetClientName, append([]byte(clientName), 0)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("register client name: %w", err)
	}
	return c, nil
}

func (c *openRGBClient) Close() error {
	return c.conn.Close()
}

func (c *openRGBClient) send(device, command uint32, payload []byte) error {
	packet := make([]byte, 16+len(payload))
	copy(packet, orgbMagic)
	binary.LittleEndian.PutUint32(packet[4:], device)
	binary.LittleEndian.PutUint32(packet[8:], command)
	binary.LittleEndian.PutUint32(packet[12:], uint32(len(payload)))
	copy(packet[16:], payload)
	_, err := c.conn.Write(packet)
	return err
}

func (c *openRGBClient) recv(command uint32) ([]byte, error) {
	header := make([]byte, 16)
	if _, err := io.ReadFull(c.conn, header); err != nil {
		return nil, err
	}
	if string(header[:4]) != orgbMagic {
		return nil, fmt.Errorf("bad packet magic %q", header[:4])
	}
	if got := binary.LittleEndian.Uint32(header[8:12]); got != command {
		return nil, fmt.Errorf("expected reply to command %d, got %d", command, got)
	}
	payload := make([]byte, binary.LittleEndian.Uint32(header[12:16]))
	if _, err := io.ReadFull(c.conn, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *openRGBClient) ControllerCount() (int, error) {
	if err := c.send(0, orgbRequestControllerCount, nil); err != nil {
		return 0, err
	}
	payload, err := c.recv(orgbRequestControllerCount)
	if err != nil {
		return 0, err
	}
	if len(payload) < 4 {
		return 0, fmt.Errorf("short controller count reply (%d bytes)", len(payload))
	}
	return int(binary.LittleEndian.Uint32(payload)), nil
}

func (c *openRGBClient) Controller(id int) (rgbController, error) {
	if err := c.send(uint32(id), orgbRequestControllerData, nil); err != nil {
		return rgbController{}, err
	}
	payload, err := c.recv(orgbRequestControllerData)
	if err != nil {
		return rgbController{}, err
	}
	ctrl, err := parseController(payload)
	if err != nil {
		return rgbController{}, fmt.Errorf("controller %d: %w", id, err)
	}
	ctrl.ID = id
	return ctrl, nil
}

func (c *openRGBClient) Controllers() ([]rgbController, error) {
	count, err := c.ControllerCount()
	if err != nil {
		return nil, err
	}
	controllers := make([]rgbController, 0, count)
	for id := 0; id < count; id++ {
		ctrl, err := c.Controller(id)
		if err != nil {
			return nil, err
		}
		controllers = append(controllers, ctrl)
	}
	return controllers, nil
}

// SetColor fills every LED of the controller with one color. The server
// sends no reply to an UpdateLEDs packet.
func (c *openRGBClient) SetColor(id, ledCount int, col Color) error {
	r, g, b := col.rgb8()
	payload := make([]byte, 4+2+4*ledCount)
	binary.LittleEndian.PutUint32(payload, uint32(len(payload)))
	binary.LittleEndian.PutUint16(payload[4:], uint16(ledCount))
	for i := 0; i < ledCount; i++ {
		off := 6 + 4*i
		payload[off] = r
		payload[off+1] = g
		payload[off+2] = b
	}
	return c.send(uint32(id), orgbUpdateLEDs, payload)
}

// parseController walks a protocol version 0 controller data block. Modes
// and zones are fully consumed to reach the LED count but their contents
// are discarded.
func parseController(data []byte) (rgbController, error) {
	r := &packetReader{buf: data}

	r.u32() // total block size
	r.i32() // device type
	name := r.str()
	r.str() // description
	r.str() // firmware version
	r.str() // serial
	r.str() // location

	numModes := r.u16()
	r.i32() // active mode
	for i := 0; i < int(numModes); i++ {
		r.str() // mode name
		r.i32() // value
		r.u32() // flags
		r.u32() // speed min
		r.u32() // speed max
		r.u32() // colors min
		r.u32() // colors max
		r.u32() // speed
		r.u32() // direction
		r.u32() // color mode
		modeColors := r.u16()
		r.skip(4 * int(modeColors))
	}

	numZones := r.u16()
	for i := 0; i < int(numZones); i++ {
		r.str() // zone name
		r.i32() // zone type
		r.u32() // leds min
		r.u32() // leds max
		r.u32() // leds count
		matrixLen := r.u16()
		r.skip(int(matrixLen))
	}

	numLEDs := r.u16()

	if r.err != nil {
		return rgbController{}, r.err
	}
	return rgbController{Name: name, LEDs: int(numLEDs)}, nil
}

// packetReader consumes little-endian fields from a payload, latching the
// first out-of-bounds read as an error so callers can check once.
type packetReader struct {
	buf []byte
	off int
	err error
}

func (r *packetReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = fmt.Errorf("truncated packet at offset %d (want %d of %d bytes)", r.off, n, len(r.buf))
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *packetReader) skip(n int) {
	r.take(n)
}

func (r *packetReader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *packetReader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *packetReader) i32() int32 {
	return int32(r.u32())
}

// str reads a length-prefixed string; the length includes a trailing NUL.
func (r *packetReader) str() string {
	n := r.u16()
	b := r.take(int(n))
	if len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return string(b)
}

// deviceLight binds one controller on an open client to the ColorSetter
// side of the loop.
type deviceLight struct {
	client *openRGBClient
	ctrl   rgbController
}

func (d *deviceLight) SetColor(c Color) error {
	return d.client.SetColor(d.ctrl.ID, d.ctrl.LEDs, c)
}
