package protocol

import "time"

// Broadcast is the envelope for one decoded broadcast frame flowing through
// the pipeline: hub, sinks and bridges consume these.
type Broadcast struct {
	Address   uint8     `json:"-"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"ts"`
	Payload   []byte    `json:"-"`
	Data      any       `json:"data"`
}

// AllRaw carries one sample of every raw sensor plus temperature
// (DREG_GYRO_RAW_XY batch, 44-byte payload).
type AllRaw struct {
	GyroX           int16   `json:"gyro_raw_x"`
	GyroY           int16   `json:"gyro_raw_y"`
	GyroZ           int16   `json:"gyro_raw_z"`
	GyroTime        float32 `json:"gyro_raw_time"`
	AccelX          int16   `json:"accel_raw_x"`
	AccelY          int16   `json:"accel_raw_y"`
	AccelZ          int16   `json:"accel_raw_z"`
	AccelTime       float32 `json:"accel_raw_time"`
	MagX            int16   `json:"mag_raw_x"`
	MagY            int16   `json:"mag_raw_y"`
	MagZ            int16   `json:"mag_raw_z"`
	MagTime         float32 `json:"mag_raw_time"`
	Temperature     float32 `json:"temperature"`
	TemperatureTime float32 `json:"temperature_time"`
}

// AllProc carries one sample of every processed sensor
// (DREG_GYRO_PROC_X batch, 48-byte payload).
type AllProc struct {
	GyroX     float32 `json:"gyro_proc_x"`
	GyroY     float32 `json:"gyro_proc_y"`
	GyroZ     float32 `json:"gyro_proc_z"`
	GyroTime  float32 `json:"gyro_proc_time"`
	AccelX    float32 `json:"accel_proc_x"`
	AccelY    float32 `json:"accel_proc_y"`
	AccelZ    float32 `json:"accel_proc_z"`
	AccelTime float32 `json:"accel_proc_time"`
	MagX      float32 `json:"mag_proc_x"`
	MagY      float32 `json:"mag_proc_y"`
	MagZ      float32 `json:"mag_proc_z"`
	MagTime   float32 `json:"mag_proc_time"`
}

// RawVector is one raw sensor triple with its sample time. Used for the
// single-sensor gyro/accel/mag broadcasts.
type RawVector struct {
	X    int16   `json:"x"`
	Y    int16   `json:"y"`
	Z    int16   `json:"z"`
	Time float32 `json:"time"`
}

// RawGyro, RawAccel and RawMag are distinct types so consumers can switch on
// the packet variant, but share the raw triple layout.
type (
	RawGyro  RawVector
	RawAccel RawVector
	RawMag   RawVector
)

// ProcVector is one calibrated sensor triple with its sample time.
type ProcVector struct {
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	Z    float32 `json:"z"`
	Time float32 `json:"time"`
}

type (
	ProcGyro  ProcVector
	ProcAccel ProcVector
	ProcMag   ProcVector
)

// Euler is the attitude estimate in degrees; rates in degrees/s.
// Raw fixed-point values are scaled by EulerScale during decoding.
type Euler struct {
	Roll      float64 `json:"roll"`
	Pitch     float64 `json:"pitch"`
	Yaw       float64 `json:"yaw"`
	RollRate  float64 `json:"roll_rate"`
	PitchRate float64 `json:"pitch_rate"`
	YawRate   float64 `json:"yaw_rate"`
	Time      float32 `json:"time"`
}

// Quaternion is the attitude estimate as a unit quaternion, scaled from
// fixed point by QuatScale.
type Quaternion struct {
	W    float64 `json:"w"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	Time float32 `json:"time"`
}

// Pose is the NEU position estimate in meters.
type Pose struct {
	North float32 `json:"north"`
	East  float32 `json:"east"`
	Up    float32 `json:"up"`
	Time  float32 `json:"time"`
}

// EulerPose combines the Euler attitude with the position estimate
// (batch starting at DREG_EULER_PHI_THETA, 36-byte payload).
type EulerPose struct {
	Euler
	North        float32 `json:"north"`
	East         float32 `json:"east"`
	Up           float32 `json:"up"`
	PositionTime float32 `json:"position_time"`
}

// Velocity is the NEU velocity estimate in m/s.
type Velocity struct {
	North float32 `json:"north"`
	East  float32 `json:"east"`
	Up    float32 `json:"up"`
	Time  float32 `json:"time"`
}

// GyroBias is the EKF gyro bias estimate in degrees/s.
type GyroBias struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Health wraps the DREG_HEALTH status word.
type Health struct {
	Raw uint32 `json:"raw"`
}

func (h Health) SatsUsed() uint8   { return uint8(h.Raw >> 26 & 0x3F) }
func (h Health) HDOP() uint16      { return uint16(h.Raw >> 16 & 0x3FF) }
func (h Health) SatsInView() uint8 { return uint8(h.Raw >> 10 & 0x3F) }
func (h Health) Overflow() bool    { return h.Raw>>8&1 == 1 }
func (h Health) MagNorm() bool     { return h.Raw>>5&1 == 1 }
func (h Health) AccelNorm() bool   { return h.Raw>>4&1 == 1 }
func (h Health) AccelFault() bool  { return h.Raw>>3&1 == 1 }
func (h Health) GyroFault() bool   { return h.Raw>>2&1 == 1 }
func (h Health) MagFault() bool    { return h.Raw>>1&1 == 1 }
func (h Health) GPSFault() bool    { return h.Raw&1 == 1 }

// Kind names the packet variant for topics, log records and filters.
func Kind(data any) string {
	switch data.(type) {
	case AllRaw:
		return "all_raw"
	case AllProc:
		return "all_proc"
	case RawGyro:
		return "raw_gyro"
	case RawAccel:
		return "raw_accel"
	case RawMag:
		return "raw_mag"
	case ProcGyro:
		return "proc_gyro"
	case ProcAccel:
		return "proc_accel"
	case ProcMag:
		return "proc_mag"
	case Euler:
		return "euler"
	case EulerPose:
		return "euler_pose"
	case Quaternion:
		return "quaternion"
	case Pose:
		return "pose"
	case Velocity:
		return "velocity"
	case GyroBias:
		return "gyro_bias"
	case Health:
		return "health"
	default:
		return "unknown"
	}
}
