package kvfile

const newline = "\r\n"
