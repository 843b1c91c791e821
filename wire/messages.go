package wire

// SumeragiPacket carries one consensus-protocol payload (BlockCreated,
// BlockSigned, BlockCommitted, ViewChange, ...). The inner payload is left
// opaque at the wire layer — the consensus package owns the tagged-union
// decode of Payload — so the codec only needs to version-frame it.
type SumeragiPacket struct {
	ViewChangeIndex uint64
	PayloadKind     byte
	Payload         []byte
}

func (p *SumeragiPacket) Kind() Kind { return KindSumeragiPacket }

func (p *SumeragiPacket) EncodeBody(w *Writer) {
	w.WriteU64(p.ViewChangeIndex)
	w.WriteByte(p.PayloadKind)
	w.WriteBytes(p.Payload)
}

func (p *SumeragiPacket) DecodeBody(r *Reader) error {
	var err error
	if p.ViewChangeIndex, err = r.ReadU64(); err != nil {
		return err
	}
	if p.PayloadKind, err = r.ReadByte(); err != nil {
		return err
	}
	if p.Payload, err = r.ReadBytes(); err != nil {
		return err
	}
	return nil
}

// BlockSync requests or announces committed blocks by height range. The
// dispatch target for BlockSync messages is an external collaborator (the
// Kura block store); this type only needs to round-trip on the wire.
type BlockSync struct {
	FromHeight uint64
	ToHeight   uint64
	Blocks     [][]byte
}

func (b *BlockSync) Kind() Kind { return KindBlockSync }

func (b *BlockSync) EncodeBody(w *Writer) {
	w.WriteU64(b.FromHeight)
	w.WriteU64(b.ToHeight)
	w.WriteU32(uint32(len(b.Blocks)))
	for _, blk := range b.Blocks {
		w.WriteBytes(blk)
	}
}

func (b *BlockSync) DecodeBody(r *Reader) error {
	var err error
	if b.FromHeight, err = r.ReadU64(); err != nil {
		return err
	}
	if b.ToHeight, err = r.ReadU64(); err != nil {
		return err
	}
	n, err := r.ReadU32()
	if err != nil {
		return err
	}
	b.Blocks = make([][]byte, n)
	for i := range b.Blocks {
		if b.Blocks[i], err = r.ReadBytes(); err != nil {
			return err
		}
	}
	return nil
}

// HealthCheck is the keep-alive/liveness probe exchanged between peers
// outside of the zero-length keep-alive frame handled at the crypto-framing
// layer; it carries a round-trip nonce so RTT can be measured.
type HealthCheck struct {
	Nonce uint64
}

func (h *HealthCheck) Kind() Kind { return KindHealthCheck }

func (h *HealthCheck) EncodeBody(w *Writer) { w.WriteU64(h.Nonce) }

func (h *HealthCheck) DecodeBody(r *Reader) error {
	var err error
	h.Nonce, err = r.ReadU64()
	return err
}
