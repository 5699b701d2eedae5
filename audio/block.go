package audio

const (
	// BlockSize is the number of samples in every audio block.
	BlockSize  = 128
	SampleRate = 44100
)

// Block is a fixed-size block of signed 16 bit samples.
type Block [BlockSize]int16

func (b *Block) zero() {
	for i := range b {
		b[i] = 0
	}
}

// Pool hands out a fixed set of blocks. Get and Put never block or allocate,
// so both are safe to call from the audio callback.
type Pool struct {
	free chan *Block
}

func NewPool(size int) *Pool {
	p := &Pool{free: make(chan *Block, size)}
	for n := 0; n < size; n++ {
		p.free <- new(Block)
	}
	return p
}

// Get returns a free block, or nil when the pool is exhausted.
func (p *Pool) Get() *Block {
	select {
	case b := <-p.free:
		return b
	default:
		return nil
	}
}

// Put returns b to the pool. Putting nil is a no-op.
func (p *Pool) Put(b *Block) {
	if b == nil {
		return
	}
	select {
	case p.free <- b:
	default:
	}
}

// Available reports the number of free blocks.
func (p *Pool) Available() int { return len(p.free) }
