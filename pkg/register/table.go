package register

// Code generated from um7.svd by the offline register description tool.
// DO NOT EDIT by hand; regenerate when the SVD changes.

func freg(addr uint8, name string, access Access) Register {
	return Register{Address: addr, Name: name, Width: 4, Access: access, Interp: Float32}
}

func cmdreg(addr uint8, name string) Register {
	return Register{Address: addr, Name: name, Width: 4, Access: ReadOnly, Interp: Uint32}
}

var table = []Register{
	{Address: 0x00, Name: "CREG_COM_SETTINGS", Width: 4, Access: ReadWrite, Interp: Uint32, Fields: []BitField{
		{Name: "BAUD_RATE", Hi: 31, Lo: 28},
		{Name: "GPS_BAUD", Hi: 27, Lo: 24},
		{Name: "GPS", Hi: 8, Lo: 8},
		{Name: "SAT", Hi: 4, Lo: 4},
	}},
	{Address: 0x01, Name: "CREG_COM_RATES1", Width: 4, Access: ReadWrite, Interp: Uint32, Fields: []BitField{
		{Name: "RAW_ACCEL_RATE", Hi: 31, Lo: 24, Unit: "Hz"},
		{Name: "RAW_GYRO_RATE", Hi: 23, Lo: 16, Unit: "Hz"},
		{Name: "RAW_MAG_RATE", Hi: 15, Lo: 8, Unit: "Hz"},
	}},
	{Address: 0x02, Name: "CREG_COM_RATES2", Width: 4, Access: ReadWrite, Interp: Uint32, Fields: []BitField{
		{Name: "TEMP_RATE", Hi: 31, Lo: 24, Unit: "Hz"},
		{Name: "ALL_RAW_RATE", Hi: 7, Lo: 0, Unit: "Hz"},
	}},
	{Address: 0x03, Name: "CREG_COM_RATES3", Width: 4, Access: ReadWrite, Interp: Uint32, Fields: []BitField{
		{Name: "PROC_ACCEL_RATE", Hi: 31, Lo: 24, Unit: "Hz"},
		{Name: "PROC_GYRO_RATE", Hi: 23, Lo: 16, Unit: "Hz"},
		{Name: "PROC_MAG_RATE", Hi: 15, Lo: 8, Unit: "Hz"},
	}},
	{Address: 0x04, Name: "CREG_COM_RATES4", Width: 4, Access: ReadWrite, Interp: Uint32, Fields: []BitField{
		{Name: "ALL_PROC_RATE", Hi: 7, Lo: 0, Unit: "Hz"},
	}},
	{Address: 0x05, Name: "CREG_COM_RATES5", Width: 4, Access: ReadWrite, Interp: Uint32, Fields: []BitField{
		{Name: "QUAT_RATE", Hi: 31, Lo: 24, Unit: "Hz"},
		{Name: "EULER_RATE", Hi: 23, Lo: 16, Unit: "Hz"},
		{Name: "POSITION_RATE", Hi: 15, Lo: 8, Unit: "Hz"},
		{Name: "VELOCITY_RATE", Hi: 7, Lo: 0, Unit: "Hz"},
	}},
	{Address: 0x06, Name: "CREG_COM_RATES6", Width: 4, Access: ReadWrite, Interp: Uint32, Fields: []BitField{
		{Name: "POSE_RATE", Hi: 31, Lo: 24, Unit: "Hz"},
		{Name: "HEALTH_RATE", Hi: 19, Lo: 16},
		{Name: "GYRO_BIAS_RATE", Hi: 15, Lo: 8, Unit: "Hz"},
	}},
	{Address: 0x07, Name: "CREG_COM_RATES7", Width: 4, Access: ReadWrite, Interp: Uint32, Fields: []BitField{
		{Name: "NMEA_HEALTH_RATE", Hi: 31, Lo: 28},
		{Name: "NMEA_POSE_RATE", Hi: 27, Lo: 24},
		{Name: "NMEA_ATTITUDE_RATE", Hi: 23, Lo: 20},
		{Name: "NMEA_SENSOR_RATE", Hi: 19, Lo: 16},
		{Name: "NMEA_RATES_RATE", Hi: 15, Lo: 12},
		{Name: "NMEA_GPS_POSE_RATE", Hi: 11, Lo: 8},
		{Name: "NMEA_QUAT_RATE", Hi: 7, Lo: 4},
	}},
	{Address: 0x08, Name: "CREG_MISC_SETTINGS", Width: 4, Access: ReadWrite, Interp: Uint32, Fields: []BitField{
		{Name: "PPS", Hi: 8, Lo: 8},
		{Name: "ZG", Hi: 2, Lo: 2},
		{Name: "Q", Hi: 1, Lo: 1},
		{Name: "MAG", Hi: 0, Lo: 0},
	}},
	freg(0x09, "CREG_HOME_NORTH", ReadWrite),
	freg(0x0A, "CREG_HOME_EAST", ReadWrite),
	freg(0x0B, "CREG_HOME_UP", ReadWrite),
	freg(0x0C, "CREG_GYRO_TRIM_X", ReadWrite),
	freg(0x0D, "CREG_GYRO_TRIM_Y", ReadWrite),
	freg(0x0E, "CREG_GYRO_TRIM_Z", ReadWrite),
	freg(0x0F, "CREG_MAG_CAL1_1", ReadWrite),
	freg(0x10, "CREG_MAG_CAL1_2", ReadWrite),
	freg(0x11, "CREG_MAG_CAL1_3", ReadWrite),
	freg(0x12, "CREG_MAG_CAL2_1", ReadWrite),
	freg(0x13, "CREG_MAG_CAL2_2", ReadWrite),
	freg(0x14, "CREG_MAG_CAL2_3", ReadWrite),
	freg(0x15, "CREG_MAG_CAL3_1", ReadWrite),
	freg(0x16, "CREG_MAG_CAL3_2", ReadWrite),
	freg(0x17, "CREG_MAG_CAL3_3", ReadWrite),
	freg(0x18, "CREG_MAG_BIAS_X", ReadWrite),
	freg(0x19, "CREG_MAG_BIAS_Y", ReadWrite),
	freg(0x1A, "CREG_MAG_BIAS_Z", ReadWrite),
	freg(0x1B, "CREG_ACCEL_CAL1_1", ReadWrite),
	freg(0x1C, "CREG_ACCEL_CAL1_2", ReadWrite),
	freg(0x1D, "CREG_ACCEL_CAL1_3", ReadWrite),
	freg(0x1E, "CREG_ACCEL_CAL2_1", ReadWrite),
	freg(0x1F, "CREG_ACCEL_CAL2_2", ReadWrite),
	freg(0x20, "CREG_ACCEL_CAL2_3", ReadWrite),
	freg(0x21, "CREG_ACCEL_CAL3_1", ReadWrite),
	freg(0x22, "CREG_ACCEL_CAL3_2", ReadWrite),
	freg(0x23, "CREG_ACCEL_CAL3_3", ReadWrite),
	freg(0x24, "CREG_ACCEL_BIAS_X", ReadWrite),
	freg(0x25, "CREG_ACCEL_BIAS_Y", ReadWrite),
	freg(0x26, "CREG_ACCEL_BIAS_Z", ReadWrite),

	{Address: 0x55, Name: "DREG_HEALTH", Width: 4, Access: ReadOnly, Interp: Uint32, Fields: []BitField{
		{Name: "SATS_USED", Hi: 31, Lo: 26},
		{Name: "HDOP", Hi: 25, Lo: 16, Scale: 0.1},
		{Name: "SATS_IN_VIEW", Hi: 15, Lo: 10},
		{Name: "OVF", Hi: 8, Lo: 8},
		{Name: "MG_N", Hi: 5, Lo: 5},
		{Name: "ACC_N", Hi: 4, Lo: 4},
		{Name: "ACCEL", Hi: 3, Lo: 3},
		{Name: "GYRO", Hi: 2, Lo: 2},
		{Name: "MAG", Hi: 1, Lo: 1},
		{Name: "GPS", Hi: 0, Lo: 0},
	}},
	{Address: 0x56, Name: "DREG_GYRO_RAW_XY", Width: 4, Access: ReadOnly, Interp: Int16Pair},
	{Address: 0x57, Name: "DREG_GYRO_RAW_Z", Width: 4, Access: ReadOnly, Interp: Int16Pair},
	freg(0x58, "DREG_GYRO_RAW_TIME", ReadOnly),
	{Address: 0x59, Name: "DREG_ACCEL_RAW_XY", Width: 4, Access: ReadOnly, Interp: Int16Pair},
	{Address: 0x5A, Name: "DREG_ACCEL_RAW_Z", Width: 4, Access: ReadOnly, Interp: Int16Pair},
	freg(0x5B, "DREG_ACCEL_RAW_TIME", ReadOnly),
	{Address: 0x5C, Name: "DREG_MAG_RAW_XY", Width: 4, Access: ReadOnly, Interp: Int16Pair},
	{Address: 0x5D, Name: "DREG_MAG_RAW_Z", Width: 4, Access: ReadOnly, Interp: Int16Pair},
	freg(0x5E, "DREG_MAG_RAW_TIME", ReadOnly),
	freg(0x5F, "DREG_TEMPERATURE", ReadOnly),
	freg(0x60, "DREG_TEMPERATURE_TIME", ReadOnly),
	freg(0x61, "DREG_GYRO_PROC_X", ReadOnly),
	freg(0x62, "DREG_GYRO_PROC_Y", ReadOnly),
	freg(0x63, "DREG_GYRO_PROC_Z", ReadOnly),
	freg(0x64, "DREG_GYRO_PROC_TIME", ReadOnly),
	freg(0x65, "DREG_ACCEL_PROC_X", ReadOnly),
	freg(0x66, "DREG_ACCEL_PROC_Y", ReadOnly),
	freg(0x67, "DREG_ACCEL_PROC_Z", ReadOnly),
	freg(0x68, "DREG_ACCEL_PROC_TIME", ReadOnly),
	freg(0x69, "DREG_MAG_PROC_X", ReadOnly),
	freg(0x6A, "DREG_MAG_PROC_Y", ReadOnly),
	freg(0x6B, "DREG_MAG_PROC_Z", ReadOnly),
	freg(0x6C, "DREG_MAG_PROC_TIME", ReadOnly),
	{Address: 0x6D, Name: "DREG_QUAT_AB", Width: 4, Access: ReadOnly, Interp: Int16Pair, Fields: []BitField{
		{Name: "QUAT_A", Hi: 31, Lo: 16, Scale: 1.0 / 29789.09091},
		{Name: "QUAT_B", Hi: 15, Lo: 0, Scale: 1.0 / 29789.09091},
	}},
	{Address: 0x6E, Name: "DREG_QUAT_CD", Width: 4, Access: ReadOnly, Interp: Int16Pair, Fields: []BitField{
		{Name: "QUAT_C", Hi: 31, Lo: 16, Scale: 1.0 / 29789.09091},
		{Name: "QUAT_D", Hi: 15, Lo: 0, Scale: 1.0 / 29789.09091},
	}},
	freg(0x6F, "DREG_QUAT_TIME", ReadOnly),
	{Address: 0x70, Name: "DREG_EULER_PHI_THETA", Width: 4, Access: ReadOnly, Interp: Int16Pair, Fields: []BitField{
		{Name: "PHI", Hi: 31, Lo: 16, Scale: 1.0 / 91.02222, Unit: "deg"},
		{Name: "THETA", Hi: 15, Lo: 0, Scale: 1.0 / 91.02222, Unit: "deg"},
	}},
	{Address: 0x71, Name: "DREG_EULER_PSI", Width: 4, Access: ReadOnly, Interp: Int16Pair, Fields: []BitField{
		{Name: "PSI", Hi: 31, Lo: 16, Scale: 1.0 / 91.02222, Unit: "deg"},
	}},
	{Address: 0x72, Name: "DREG_EULER_PHI_THETA_DOT", Width: 4, Access: ReadOnly, Interp: Int16Pair},
	{Address: 0x73, Name: "DREG_EULER_PSI_DOT", Width: 4, Access: ReadOnly, Interp: Int16Pair},
	freg(0x74, "DREG_EULER_TIME", ReadOnly),
	freg(0x75, "DREG_POSITION_NORTH", ReadOnly),
	freg(0x76, "DREG_POSITION_EAST", ReadOnly),
	freg(0x77, "DREG_POSITION_UP", ReadOnly),
	freg(0x78, "DREG_POSITION_TIME", ReadOnly),
	freg(0x79, "DREG_VELOCITY_NORTH", ReadOnly),
	freg(0x7A, "DREG_VELOCITY_EAST", ReadOnly),
	freg(0x7B, "DREG_VELOCITY_UP", ReadOnly),
	freg(0x7C, "DREG_VELOCITY_TIME", ReadOnly),
	freg(0x7D, "DREG_GPS_LATITUDE", ReadOnly),
	freg(0x7E, "DREG_GPS_LONGITUDE", ReadOnly),
	freg(0x7F, "DREG_GPS_ALTITUDE", ReadOnly),
	freg(0x80, "DREG_GPS_COURSE", ReadOnly),
	freg(0x81, "DREG_GPS_SPEED", ReadOnly),
	freg(0x82, "DREG_GPS_TIME", ReadOnly),
	freg(0x89, "DREG_GYRO_BIAS_X", ReadOnly),
	freg(0x8A, "DREG_GYRO_BIAS_Y", ReadOnly),
	freg(0x8B, "DREG_GYRO_BIAS_Z", ReadOnly),

	{Address: 0xAA, Name: "GET_FW_REVISION", Width: 4, Access: ReadOnly, Interp: Bytes4},
	cmdreg(0xAB, "FLASH_COMMIT"),
	cmdreg(0xAC, "RESET_TO_FACTORY"),
	cmdreg(0xAD, "ZERO_GYROS"),
	cmdreg(0xAE, "SET_HOME_POSITION"),
	cmdreg(0xB0, "SET_MAG_REFERENCE"),
	cmdreg(0xB3, "RESET_EKF"),

	{Address: 0x00, Name: "HIDDEN_GYRO_VARIANCE", Width: 4, Access: ReadWrite, Interp: Float32, Hidden: true},
	{Address: 0x01, Name: "HIDDEN_ACCEL_VARIANCE", Width: 4, Access: ReadWrite, Interp: Float32, Hidden: true},
}
