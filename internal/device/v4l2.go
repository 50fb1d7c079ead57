// Package device is the V4L2 capture/playback collaborator spec.md treats
// as external to the core: a kernel video subsystem with mmap-based queued
// buffers. It hands the pipeline one interleaved RGB frame per call and
// takes one back, reflecting buffers in and out of the driver in FIFO order.
package device

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ranjodhsingh/spotlight/internal/config"
	"github.com/ranjodhsingh/spotlight/internal/logger"
)

// V4L2 ioctl numbers and buffer-type/memory constants, reproduced from
// linux/videodev2.h. golang.org/x/sys/unix carries the generic ioctl/mmap
// syscalls but not these device-specific constants.
const (
	vidiocQueryCap    = 0x80685600
	vidiocGFmt        = 0xc0d05604
	vidiocSFmt        = 0xc0d05605
	vidiocReqBufs     = 0xc0145608
	vidiocQueryBuf     = 0xc0585609
	vidiocQBuf        = 0xc058560f
	vidiocDQBuf       = 0xc0585611
	vidiocStreamOn    = 0x40045612
	vidiocStreamOff   = 0x40045613
	vidiocGParm       = 0xc0cc5615
	vidiocSParm       = 0xc0cc5616

	bufTypeVideoCapture = 1
	bufTypeVideoOutput  = 2

	memoryMMap = 1

	capVideoCapture = 0x00000001
	capVideoOutput  = 0x00000002
	capStreaming    = 0x04000000
	capDeviceCaps   = 0x80000000

	fieldNone = 2

	capTimePerFrame = 0x1000
)

type v4l2Capability struct {
	Driver       [16]byte
	Card         [32]byte
	BusInfo      [32]byte
	Version      uint32
	Capabilities uint32
	DeviceCaps   uint32
	Reserved     [3]uint32
}

type v4l2PixFormat struct {
	Width        uint32
	Height       uint32
	PixelFormat  uint32
	Field        uint32
	BytesPerLine uint32
	SizeImage    uint32
	Colorspace   uint32
	Priv         uint32
	Flags        uint32
	Encoding     uint32
	Quantization uint32
	XferFunc     uint32
}

type v4l2Format struct {
	Type uint32
	// the fmt union is 8-byte aligned on 64-bit kernels
	_   uint32
	Pix v4l2PixFormat
	// linux's v4l2_format union (200 bytes) is larger than v4l2_pix_format;
	// pad to its declared size so the struct's on-wire layout matches the
	// kernel ABI (208 bytes, the size encoded in vidiocGFmt/vidiocSFmt).
	_ [200 - 12*4]byte
}

type v4l2RequestBuffers struct {
	Count      uint32
	Type       uint32
	Memory     uint32
	Capability uint32
	Reserved   [1]uint32
}

type v4l2TimeVal struct {
	Sec  int64
	Usec int64
}

type v4l2Buffer struct {
	Index     uint32
	Type      uint32
	BytesUsed uint32
	Flags     uint32
	Field     uint32
	Timestamp v4l2TimeVal
	// v4l2_buffer carries a timecode struct and the 8-byte m union after this
	// point; the pipeline reads only the union's offset member. Total size is
	// 88 bytes, the size encoded in vidiocQueryBuf/QBuf/DQBuf.
	Timecode [16]byte
	Sequence uint32
	Memory   uint32
	MOffset  uint32
	_        uint32
	Length   uint32
	Reserved2 uint32
	RequestFD int32
}

type v4l2FractFPS struct {
	Numerator   uint32
	Denominator uint32
}

type v4l2CaptureParm struct {
	Capability   uint32
	CaptureMode  uint32
	TimePerFrame v4l2FractFPS
	ExtendedMode uint32
	ReadBuffers  uint32
	Reserved     [4]uint32
}

type v4l2StreamParm struct {
	Type    uint32
	Capture v4l2CaptureParm
	// parm is a 200-byte union in the kernel ABI (204 bytes in total, the
	// size encoded in vidiocGParm/vidiocSParm).
	_ [200 - 40]byte
}

// mmapBuffer is one queued buffer mapped into process memory.
type mmapBuffer struct {
	data      []byte
	bytesUsed uint32
}

// Device is one V4L2 node: either a capture node (VIDEO_CAPTURE) or a
// virtual-output node (VIDEO_OUTPUT), driven by mmap-based streaming I/O.
type Device struct {
	f       *os.File
	path    string
	bufType uint32
	cfg     config.DeviceConfig
	buffers []mmapBuffer
}

// openCaptureDevice opens path as a capture device and negotiates the given
// configuration.
func openCaptureDevice(path string, cfg config.DeviceConfig, numBuffers int) (*Device, error) {
	return open(path, bufTypeVideoCapture, cfg, numBuffers)
}

// openOutputDevice opens path as a virtual-camera output device.
func openOutputDevice(path string, cfg config.DeviceConfig, numBuffers int) (*Device, error) {
	return open(path, bufTypeVideoOutput, cfg, numBuffers)
}

func open(path string, bufType uint32, cfg config.DeviceConfig, numBuffers int) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("device: open %s: %w", path, err)
	}

	d := &Device{f: f, path: path, bufType: bufType, cfg: cfg}

	if err := d.checkCaps(); err != nil {
		f.Close()
		return nil, err
	}
	if err := d.setFormat(); err != nil {
		f.Close()
		return nil, err
	}
	if bufType == bufTypeVideoCapture {
		d.setFPS()
	}
	if err := d.requestBuffers(numBuffers); err != nil {
		f.Close()
		return nil, err
	}
	if err := d.startStreaming(); err != nil {
		d.unmapAll()
		f.Close()
		return nil, err
	}

	return d, nil
}

func (d *Device) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.f.Fd(), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func (d *Device) checkCaps() error {
	var capability v4l2Capability
	if err := d.ioctl(vidiocQueryCap, unsafe.Pointer(&capability)); err != nil {
		return fmt.Errorf("device: QUERYCAP %s: %w", d.path, err)
	}

	caps := capability.Capabilities
	if caps&capDeviceCaps != 0 {
		caps = capability.DeviceCaps
	}

	want := uint32(capVideoCapture)
	if d.bufType == bufTypeVideoOutput {
		want = capVideoOutput
	}
	if caps&want == 0 {
		return fmt.Errorf("device: %s does not support the requested direction", d.path)
	}
	if caps&capStreaming == 0 {
		return fmt.Errorf("device: %s does not support streaming I/O", d.path)
	}
	return nil
}

func (d *Device) setFormat() error {
	var fmtReq v4l2Format
	fmtReq.Type = d.bufType
	if err := d.ioctl(vidiocGFmt, unsafe.Pointer(&fmtReq)); err != nil {
		return fmt.Errorf("device: G_FMT %s: %w", d.path, err)
	}

	fmtReq.Pix.Width = uint32(d.cfg.Width)
	fmtReq.Pix.Height = uint32(d.cfg.Height)
	fmtReq.Pix.PixelFormat = uint32(d.cfg.FourCC)
	fmtReq.Pix.Field = fieldNone

	if err := d.ioctl(vidiocSFmt, unsafe.Pointer(&fmtReq)); err != nil {
		return fmt.Errorf("device: S_FMT %s: %w", d.path, err)
	}

	if fmtReq.Pix.Field != fieldNone || fmtReq.Pix.PixelFormat != uint32(d.cfg.FourCC) {
		return fmt.Errorf("device: format rejected by %s", d.path)
	}
	if fmtReq.Pix.Width != uint32(d.cfg.Width) || fmtReq.Pix.Height != uint32(d.cfg.Height) {
		logger.WithComponent("device").Warn().Str("path", d.path).Msg("resolution rejected by device, continuing")
	}
	return nil
}

// isFractionalFPS reports whether fps has a non-zero fractional part, the
// predicate setFPS uses to decide whether to warn about truncation.
func isFractionalFPS(fps float64) bool {
	return fps != float64(int(fps))
}

func (d *Device) setFPS() {
	if isFractionalFPS(d.cfg.FPS) {
		logger.WithComponent("device").Warn().Float64("fps", d.cfg.FPS).
			Msg("fractional fps is truncated by the device; requesting the integer part")
	}

	var param v4l2StreamParm
	param.Type = bufTypeVideoCapture
	if err := d.ioctl(vidiocGParm, unsafe.Pointer(&param)); err != nil {
		logger.WithComponent("device").Warn().Err(err).Str("path", d.path).Msg("G_PARM failed")
		return
	}

	if param.Capture.Capability&capTimePerFrame == 0 {
		logger.WithComponent("device").Warn().Str("path", d.path).Msg("device does not support frame-rate negotiation")
		return
	}

	param.Capture.TimePerFrame = v4l2FractFPS{Numerator: 1, Denominator: uint32(d.cfg.FPS)}
	if err := d.ioctl(vidiocSParm, unsafe.Pointer(&param)); err != nil {
		logger.WithComponent("device").Warn().Err(err).Str("path", d.path).Msg("S_PARM failed")
	}
}

func (d *Device) requestBuffers(n int) error {
	req := v4l2RequestBuffers{Count: uint32(n), Type: d.bufType, Memory: memoryMMap}
	if err := d.ioctl(vidiocReqBufs, unsafe.Pointer(&req)); err != nil {
		return fmt.Errorf("device: REQBUFS %s: %w", d.path, err)
	}
	if req.Count < 1 {
		return fmt.Errorf("device: %s granted zero buffers", d.path)
	}

	d.buffers = make([]mmapBuffer, req.Count)
	for i := range d.buffers {
		var buf v4l2Buffer
		buf.Index = uint32(i)
		buf.Type = d.bufType
		buf.Memory = memoryMMap
		if err := d.ioctl(vidiocQueryBuf, unsafe.Pointer(&buf)); err != nil {
			d.unmapAll()
			return fmt.Errorf("device: QUERYBUF %s: %w", d.path, err)
		}

		mem, err := unix.Mmap(int(d.f.Fd()), int64(buf.MOffset), int(buf.Length), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			d.unmapAll()
			return fmt.Errorf("device: mmap %s: %w", d.path, err)
		}
		d.buffers[i].data = mem
	}
	return nil
}

func (d *Device) startStreaming() error {
	for i := range d.buffers {
		var buf v4l2Buffer
		buf.Index = uint32(i)
		buf.Type = d.bufType
		buf.Memory = memoryMMap
		if d.bufType == bufTypeVideoOutput {
			buf.Length = uint32(len(d.buffers[i].data))
			buf.BytesUsed = d.buffers[i].bytesUsed
		}
		if err := d.ioctl(vidiocQBuf, unsafe.Pointer(&buf)); err != nil {
			return fmt.Errorf("device: QBUF %s: %w", d.path, err)
		}
	}
	bt := d.bufType
	if err := d.ioctl(vidiocStreamOn, unsafe.Pointer(&bt)); err != nil {
		return fmt.Errorf("device: STREAMON %s: %w", d.path, err)
	}
	return nil
}

func (d *Device) unmapAll() {
	for i := range d.buffers {
		if d.buffers[i].data != nil {
			if err := unix.Munmap(d.buffers[i].data); err != nil {
				logger.WithComponent("device").Warn().Err(err).Str("path", d.path).Msg("munmap failed")
			}
			d.buffers[i].data = nil
		}
	}
}

// Close releases device resources in reverse construction order: stop
// streaming, unmap buffers, close the file descriptor.
func (d *Device) Close() error {
	bt := d.bufType
	if err := d.ioctl(vidiocStreamOff, unsafe.Pointer(&bt)); err != nil {
		logger.WithComponent("device").Warn().Err(err).Str("path", d.path).Msg("STREAMOFF failed")
	}
	d.unmapAll()
	return d.f.Close()
}

// Dequeue blocks until the kernel hands back one filled buffer and returns
// its raw bytes (still owned by the mmap region; valid until Enqueue).
func (d *Device) Dequeue() (index int, data []byte, err error) {
	var buf v4l2Buffer
	buf.Type = d.bufType
	buf.Memory = memoryMMap
	if err := d.ioctl(vidiocDQBuf, unsafe.Pointer(&buf)); err != nil {
		return 0, nil, fmt.Errorf("device: DQBUF %s: %w", d.path, err)
	}
	mb := &d.buffers[buf.Index]
	return int(buf.Index), mb.data[:buf.BytesUsed], nil
}

// Enqueue returns buffer index back to the driver's queue. bytesUsed is
// meaningful only for output devices.
func (d *Device) Enqueue(index int, bytesUsed int) error {
	d.buffers[index].bytesUsed = uint32(bytesUsed)

	var buf v4l2Buffer
	buf.Index = uint32(index)
	buf.Type = d.bufType
	buf.Memory = memoryMMap
	if d.bufType == bufTypeVideoOutput {
		buf.Length = uint32(len(d.buffers[index].data))
		buf.BytesUsed = uint32(bytesUsed)
	}
	if err := d.ioctl(vidiocQBuf, unsafe.Pointer(&buf)); err != nil {
		return fmt.Errorf("device: QBUF %s: %w", d.path, err)
	}
	return nil
}

// BufferAt exposes the mmap'd bytes for index, for an output device's
// encoder to write directly into before Enqueue.
func (d *Device) BufferAt(index int) []byte { return d.buffers[index].data }
