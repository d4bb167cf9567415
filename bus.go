package max2870

import (
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// RegisterBus is the transport used to push register words to the device.
// Implementations must clock out all four bytes MSB first in one
// transaction; the register address travels in bits 0-2 of the word itself.
type RegisterBus interface {
	WriteWord(word uint32) error
}

// spiBus drives the device over a periph.io SPI connection.
type spiBus struct {
	conn spi.Conn
	port spi.PortCloser
}

// openSPIBus opens the named SPI port at 10 MHz mode 0, the timing the chip
// is specified for.
func openSPIBus(dev string) (*spiBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}

	p, err := spireg.Open(dev)
	if err != nil {
		return nil, err
	}

	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, err
	}

	return &spiBus{conn: c, port: p}, nil
}

func (b *spiBus) WriteWord(w uint32) error {
	tx := []byte{byte(w >> 24), byte(w >> 16), byte(w >> 8), byte(w)}
	return b.conn.Tx(tx, make([]byte, len(tx)))
}

func (b *spiBus) Close() error {
	if b.port != nil {
		return b.port.Close()
	}
	return nil
}
